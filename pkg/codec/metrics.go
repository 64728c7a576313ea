package codec

import (
	"github.com/VictoriaMetrics/metrics"
)

// Counters for codec activity, exposed through the default
// VictoriaMetrics registry. Hosts that serve metrics pick these up via
// metrics.WritePrometheus.
var (
	encodeTotal           = metrics.NewCounter("terse_encode_total")
	encodeFallbackTotal   = metrics.NewCounter("terse_encode_fallback_total")
	encodeErrorTotal      = metrics.NewCounter("terse_encode_error_total")
	decodeTotal           = metrics.NewCounter("terse_decode_total")
	decodeErrorTotal      = metrics.NewCounter("terse_decode_error_total")
	compressedFrameTotal  = metrics.NewCounter("terse_compressed_frame_total")
	compressionSavedBytes = metrics.NewCounter("terse_compression_saved_bytes_total")
)
