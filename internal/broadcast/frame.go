package broadcast

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/gzip"

	"github.com/codjointops/radarflow-bridge/internal/errs"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

const (
	frameUncompressed byte = 0x00
	frameCompressed   byte = 0x01
)

// compression level selection thresholds, by encoded JSON length.
const (
	fastBelowDefault = 5000
	bestAboveDefault = 20000
)

// pickLevel chooses a klauspost/compress gzip level for a payload of size
// n bytes, always choosing maximum compression when the client is reporting
// high latency (the extra compression ratio matters more than CPU time once a
// client is already behind).
func pickLevel(n int, fastBelow, bestAbove int, highLatency bool) int {
	switch {
	case highLatency:
		return gzip.BestCompression
	case n < fastBelow:
		return gzip.BestSpeed
	case n > bestAbove:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

// EncodeSnapshot marshals a RadarSnapshot and frames it with a leading
// compression-marker byte. Compression is applied only when enabled and it
// actually shrinks the payload; otherwise the frame falls back to
// uncompressed.
func EncodeSnapshot(snap radar.RadarSnapshot, fastBelow, bestAbove int, highLatency, compress bool) ([]byte, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("broadcast: encode snapshot: %w", errs.Serialization)
	}
	if !compress {
		out := make([]byte, 0, len(body)+1)
		out = append(out, frameUncompressed)
		out = append(out, body...)
		return out, nil
	}
	return frame(body, fastBelow, bestAbove, highLatency)
}

func frame(body []byte, fastBelow, bestAbove int, highLatency bool) ([]byte, error) {
	level := pickLevel(len(body), fastBelow, bestAbove, highLatency)

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("broadcast: gzip writer: %w", errs.Serialization)
	}
	if _, err := zw.Write(body); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("broadcast: gzip write: %w", errs.Serialization)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("broadcast: gzip close: %w", errs.Serialization)
	}

	if buf.Len() >= len(body) {
		out := make([]byte, 0, len(body)+1)
		out = append(out, frameUncompressed)
		out = append(out, body...)
		return out, nil
	}

	out := make([]byte, 0, buf.Len()+1)
	out = append(out, frameCompressed)
	out = append(out, buf.Bytes()...)
	return out, nil
}

// DecodeFrame reverses EncodeSnapshot/frame, for tests and for any future
// client-side tooling sharing this package.
func DecodeFrame(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("broadcast: empty frame: %w", errs.Serialization)
	}
	marker, body := data[0], data[1:]
	switch marker {
	case frameUncompressed:
		return body, nil
	case frameCompressed:
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("broadcast: gzip reader: %w", errs.Serialization)
		}
		defer zr.Close()
		var out bytes.Buffer
		if _, err := out.ReadFrom(zr); err != nil {
			return nil, fmt.Errorf("broadcast: gzip read: %w", errs.Serialization)
		}
		return out.Bytes(), nil
	default:
		return nil, fmt.Errorf("broadcast: unknown frame marker 0x%x: %w", marker, errs.Serialization)
	}
}
