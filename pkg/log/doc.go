// Package log provides structured trace logging for codec operations.
//
// Applications implement Logger (or use one of the provided
// implementations) and pass it via codec Options. The codec emits one
// Event per top-level operation: encode, decode, compress, decompress.
// There is no global logger and no default output; without an explicit
// Logger the codec uses NoopLogger.
//
// Events are CBOR-serializable with integer keys, so captured traces are
// compact and can be replayed with a Reader for offline analysis.
package log
