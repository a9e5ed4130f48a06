package producer

import (
	"testing"
	"time"

	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
)

func TestClassifySideTeamAndEnemy(t *testing.T) {
	if got := classifySide(2, 2); got != "Team" {
		t.Fatalf("expected Team, got %v", got)
	}
	if got := classifySide(2, 3); got != "Enemy" {
		t.Fatalf("expected Enemy, got %v", got)
	}
}

func TestBombTimersInactiveWhenNotPlanted(t *testing.T) {
	g := NewGameState()
	timeLeft, defuseEnd, canDefuse := g.BombTimers(time.Now())
	if timeLeft != 0 || defuseEnd != 0 || canDefuse {
		t.Fatalf("expected all-zero timers when not planted, got %v %v %v", timeLeft, defuseEnd, canDefuse)
	}
}

func TestBombTimersCountsDownFromPlant(t *testing.T) {
	stamp := time.Now().Add(-10 * time.Second)
	g := NewGameState()
	g.BombPlanted = true
	g.BombPlantDuration = 40
	g.BombPlantedStamp = &stamp

	timeLeft, _, canDefuse := g.BombTimers(time.Now())
	if canDefuse {
		t.Fatal("expected canDefuse false with no defuse stamp")
	}
	if timeLeft <= 0 || timeLeft >= 40 {
		t.Fatalf("expected timeLeft strictly between 0 and 40, got %v", timeLeft)
	}
}

func TestBombTimersDefuseWindow(t *testing.T) {
	plantStamp := time.Now().Add(-5 * time.Second)
	defuseStamp := time.Now().Add(-1 * time.Second)
	g := NewGameState()
	g.BombPlanted = true
	g.BombPlantDuration = 40
	g.BombDefuseDuration = 5
	g.BombPlantedStamp = &plantStamp
	g.BombDefuseStamp = &defuseStamp

	timeLeft, defuseEnd, canDefuse := g.BombTimers(time.Now())
	if !canDefuse {
		t.Fatalf("expected defuse to be possible, timeLeft=%v", timeLeft)
	}
	if defuseEnd <= 0 {
		t.Fatalf("expected positive defuseEnd, got %v", defuseEnd)
	}
}

func TestBombTimersExplodedSuppressesAll(t *testing.T) {
	stamp := time.Now().Add(-1 * time.Second)
	g := NewGameState()
	g.BombPlanted = true
	g.BombExploded = true
	g.BombPlantedStamp = &stamp

	timeLeft, defuseEnd, canDefuse := g.BombTimers(time.Now())
	if timeLeft != 0 || defuseEnd != 0 || canDefuse {
		t.Fatal("expected all-zero timers once the bomb has exploded")
	}
}

func TestCurrentBombStateTransitions(t *testing.T) {
	g := NewGameState()
	if g.CurrentBombState() != BombIdle {
		t.Fatalf("expected Idle, got %v", g.CurrentBombState())
	}
	g.HasBombHolder = true
	if g.CurrentBombState() != BombCarried {
		t.Fatalf("expected Carried, got %v", g.CurrentBombState())
	}
	g.HasBombHolder = false
	g.BombDropped = true
	if g.CurrentBombState() != BombDropped {
		t.Fatalf("expected Dropped, got %v", g.CurrentBombState())
	}
	g.BombPlanted = true
	if g.CurrentBombState() != BombPlanted {
		t.Fatalf("expected Planted, got %v", g.CurrentBombState())
	}
	g.BombDefused = true
	if g.CurrentBombState() != BombDefused {
		t.Fatalf("expected Defused, got %v", g.CurrentBombState())
	}
}

func TestResolveBombHolderPicksUpAndClearsDropped(t *testing.T) {
	sv := memview.NewStubView()
	sv.MapModule("client.dll", 0x1000, make([]byte, 0x4000))

	pawnAddr := memview.Address(0x2000)
	sv.WriteAt(pawnAddr+offsets.Catalog.PawnBombServices, encodeAddr(0x9999))

	g := NewGameState()
	g.BombDropped = true
	g.Players = []PlayerSlot{{Controller: 0x1500, Pawn: pawnAddr}}

	if err := g.ResolveBombHolder(sv); err != nil {
		t.Fatalf("ResolveBombHolder: %v", err)
	}
	if !g.HasBombHolder || g.BombHolder != pawnAddr {
		t.Fatalf("expected pawn %v to hold the bomb, got holder=%v has=%v", pawnAddr, g.BombHolder, g.HasBombHolder)
	}
	if g.BombDropped {
		t.Fatal("expected BombDropped cleared once a holder is found")
	}
}

func TestResolveBombHolderNoneWhenNobodyCarries(t *testing.T) {
	sv := memview.NewStubView()
	sv.MapModule("client.dll", 0x1000, make([]byte, 0x4000))
	pawnAddr := memview.Address(0x2000)
	sv.WriteAt(pawnAddr+offsets.Catalog.PawnBombServices, encodeAddr(0))

	g := NewGameState()
	g.Players = []PlayerSlot{{Controller: 0x1500, Pawn: pawnAddr}}
	if err := g.ResolveBombHolder(sv); err != nil {
		t.Fatalf("ResolveBombHolder: %v", err)
	}
	if g.HasBombHolder {
		t.Fatal("expected no holder")
	}
}

func encodeAddr(a memview.Address) []byte {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(a >> (8 * i))
	}
	return buf
}
