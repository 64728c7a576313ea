package log

// MultiLogger fans each event out to several loggers in the order they
// were given. Sinks run sequentially on the caller's goroutine, so a
// slow sink delays the ones after it; when chaining a SlogAdapter with
// a CaptureLogger backed by disk, put the capture last to keep console
// output ahead of the write.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger chains the given loggers. An empty chain is valid and
// behaves like NoopLogger.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log forwards the event to every chained logger.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
