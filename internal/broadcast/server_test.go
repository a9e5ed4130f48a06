package broadcast

import (
	"io"
	"net"
	"testing"

	"github.com/gobwas/ws"
	"go.uber.org/zap"

	"github.com/codjointops/radarflow-bridge/internal/config"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

func manyEntitySnapshot(n int) radar.RadarSnapshot {
	snap := radar.Empty(1, false)
	snap.Ingame = true
	for i := 0; i < n; i++ {
		snap.Entities = append(snap.Entities, radar.NewPlayerEntity(radar.PlayerSnapshot{Side: radar.SideEnemy}))
	}
	return snap
}

func readOneFrame(t *testing.T, conn net.Conn) {
	t.Helper()
	header, err := ws.ReadHeader(conn)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if _, err := io.ReadFull(conn, make([]byte, header.Length)); err != nil {
		t.Fatalf("read body: %v", err)
	}
}

// TestSendSnapshotSkipsAfterCrowdedHighLatencyFrame exercises the
// skip_frames lifecycle: a frame with more than skipEntityThreshold
// entities sent to a high-latency session arms the skip, the very next
// requestInfo is suppressed, and the one after that sends normally again.
func TestSendSnapshotSkipsAfterCrowdedHighLatencyFrame(t *testing.T) {
	cell := radar.NewCell()
	cell.Publish(manyEntitySnapshot(skipEntityThreshold + 1))

	cfg := config.WebSocketConfig{CompressFastBelow: 5000, CompressBestAbove: 20000, EnableCompression: true}
	srv := NewServer(":0", cfg, NewHub(), cell, zap.NewNop(), nil)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sess := &Session{ID: "t", Conn: server, HighLatency: true}

	done := make(chan bool, 1)
	go func() { done <- srv.sendSnapshot(server, sess) }()
	readOneFrame(t, client)
	if ok := <-done; !ok {
		t.Fatal("expected sendSnapshot to report success")
	}
	if !sess.SkipFrames {
		t.Fatal("expected SkipFrames armed after a crowded, high-latency frame")
	}

	if ok := srv.sendSnapshot(server, sess); !ok {
		t.Fatal("expected sendSnapshot to report success even when skipping")
	}
	if sess.SkipFrames {
		t.Fatal("expected the armed skip to be consumed by the suppressed frame")
	}

	go func() { done <- srv.sendSnapshot(server, sess) }()
	readOneFrame(t, client)
	if ok := <-done; !ok {
		t.Fatal("expected sendSnapshot to report success")
	}
}

func TestSendSnapshotSendsEveryFrameWhenNotCrowded(t *testing.T) {
	cell := radar.NewCell()
	cell.Publish(manyEntitySnapshot(1))

	cfg := config.WebSocketConfig{CompressFastBelow: 5000, CompressBestAbove: 20000, EnableCompression: true}
	srv := NewServer(":0", cfg, NewHub(), cell, zap.NewNop(), nil)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sess := &Session{ID: "t", Conn: server, HighLatency: true}

	done := make(chan bool, 1)
	for i := 0; i < 2; i++ {
		go func() { done <- srv.sendSnapshot(server, sess) }()
		readOneFrame(t, client)
		if ok := <-done; !ok {
			t.Fatal("expected sendSnapshot to report success")
		}
		if sess.SkipFrames {
			t.Fatal("expected no skip armed below the entity threshold")
		}
	}
}
