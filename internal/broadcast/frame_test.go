package broadcast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/codjointops/radarflow-bridge/internal/radar"
)

func TestEncodeSnapshotRoundTrip(t *testing.T) {
	snap := radar.Empty(3, false)
	snap.MapName = "de_mirage"

	encoded, err := EncodeSnapshot(snap, fastBelowDefault, bestAboveDefault, false, true)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	body, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	var got radar.RadarSnapshot
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.MapName != "de_mirage" || got.Freq != 3 {
		t.Fatalf("unexpected round-tripped snapshot: %+v", got)
	}
}

func TestEncodeSnapshotDisabledCompressionIsUncompressedMarker(t *testing.T) {
	snap := radar.Empty(1, false)
	encoded, err := EncodeSnapshot(snap, fastBelowDefault, bestAboveDefault, false, false)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if encoded[0] != frameUncompressed {
		t.Fatal("expected uncompressed marker when compression disabled")
	}
}

func TestPickLevelHighLatencyAlwaysBest(t *testing.T) {
	if lvl := pickLevel(1, 5000, 20000, true); lvl != 9 {
		t.Fatalf("expected best compression under high latency, got %d", lvl)
	}
}

func TestPickLevelSmallPayloadIsFast(t *testing.T) {
	if lvl := pickLevel(100, 5000, 20000, false); lvl != 1 {
		t.Fatalf("expected fastest compression for small payload, got %d", lvl)
	}
}

func TestFrameFallsBackWhenCompressionDoesNotShrink(t *testing.T) {
	tiny := []byte("{}")
	out, err := frame(tiny, fastBelowDefault, bestAboveDefault, false)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if out[0] != frameUncompressed {
		t.Fatal("expected uncompressed fallback for a payload gzip can't shrink")
	}
	if !bytes.Equal(out[1:], tiny) {
		t.Fatal("expected the uncompressed fallback to carry the original bytes verbatim")
	}
}

func TestFrameCompressesLargeRepetitivePayload(t *testing.T) {
	large := []byte(strings.Repeat("a", 50000))
	out, err := frame(large, fastBelowDefault, bestAboveDefault, false)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if out[0] != frameCompressed {
		t.Fatal("expected compressed marker for large repetitive payload")
	}
	if len(out) >= len(large) {
		t.Fatalf("expected compression to shrink payload, got %d >= %d", len(out), len(large))
	}
}
