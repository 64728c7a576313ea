package log

import (
	"io"
	"sync"
)

// CaptureLogger writes events to an io.Writer as a CBOR stream.
// It is safe for concurrent use from multiple goroutines.
type CaptureLogger struct {
	mu      sync.Mutex
	encoder encoderIface
	closed  bool
	closer  io.Closer
}

// encoderIface is satisfied by *cbor.Encoder.
type encoderIface interface {
	Encode(v any) error
}

// NewCaptureLogger creates a CaptureLogger appending CBOR events to w.
// If w also implements io.Closer, Close closes it.
func NewCaptureLogger(w io.Writer) *CaptureLogger {
	l := &CaptureLogger{encoder: NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Log writes an event to the capture stream.
// Encoding errors are ignored: logging must not disrupt the codec.
func (l *CaptureLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
}

// Close stops the logger and closes the underlying writer if it is an
// io.Closer. Safe to call multiple times; later Log calls are ignored.
func (l *CaptureLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Logger = (*CaptureLogger)(nil)
