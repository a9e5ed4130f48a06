package producer

import (
	"math"
	"testing"

	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
)

func TestBuildBombEntityOnlyWhenPlanted(t *testing.T) {
	sv := memview.NewStubView()
	g := NewGameState()
	g.HasBombEntity = true
	g.BombEntity = 0x3000
	g.BombPlanted = false

	if _, ok := buildBombEntity(sv, g, offsets.Catalog.PawnSceneNode, offsets.Catalog.SceneNodeAbsOrigin); ok {
		t.Fatal("expected no bomb entity when not planted")
	}
}

func TestBuildBombEntityReadsPosition(t *testing.T) {
	sv := memview.NewStubView()
	bombAddr := memview.Address(0x3000)
	sceneNode := memview.Address(0x4000)

	sv.WriteAt(bombAddr+offsets.Catalog.PawnSceneNode, encodeAddr(sceneNode))
	sv.WriteAt(sceneNode+offsets.Catalog.SceneNodeAbsOrigin, encodeVec3(1, 2, 3))

	g := NewGameState()
	g.HasBombEntity = true
	g.BombEntity = bombAddr
	g.BombPlanted = true

	entity, ok := buildBombEntity(sv, g, offsets.Catalog.PawnSceneNode, offsets.Catalog.SceneNodeAbsOrigin)
	if !ok {
		t.Fatal("expected a bomb entity")
	}
	if entity.Bomb == nil || entity.Player != nil {
		t.Fatal("expected a Bomb-only entity")
	}
	if entity.Bomb.Pos.X != 1 || entity.Bomb.Pos.Y != 2 || entity.Bomb.Pos.Z != 3 {
		t.Fatalf("unexpected position: %+v", entity.Bomb.Pos)
	}
	if !entity.Bomb.Planted {
		t.Fatal("expected Planted=true")
	}
}

func TestBuildLocalEntityAbsentWithoutPointers(t *testing.T) {
	sv := memview.NewStubView()
	g := NewGameState()

	if _, ok := buildLocalEntity(sv, g); ok {
		t.Fatal("expected no local entity before pointer refresh")
	}
}

func TestBuildLocalEntityDeadPawnOmitted(t *testing.T) {
	sv := memview.NewStubView()
	sv.MapModule("client.dll", 0x1000, make([]byte, 0x4000))

	controller := memview.Address(0x1500)
	pawn := memview.Address(0x2000)
	sceneNode := memview.Address(0x2800)
	sv.WriteAt(pawn+offsets.Catalog.PawnSceneNode, encodeAddr(sceneNode))
	sv.WriteAt(sceneNode+offsets.Catalog.SceneNodeAbsOrigin, encodeVec3(1, 2, 3))
	sv.WriteAt(pawn+offsets.Catalog.PawnHealth, encodeUint32(0))

	g := NewGameState()
	g.LocalController = controller
	g.LocalPawn = pawn

	if _, ok := buildLocalEntity(sv, g); ok {
		t.Fatal("expected no local entity for a dead pawn")
	}
}

func TestBuildLocalEntitySideAndBomb(t *testing.T) {
	sv := memview.NewStubView()
	sv.MapModule("client.dll", 0x1000, make([]byte, 0x4000))

	controller := memview.Address(0x1500)
	pawn := memview.Address(0x2000)
	sceneNode := memview.Address(0x2800)
	sv.WriteAt(pawn+offsets.Catalog.PawnSceneNode, encodeAddr(sceneNode))
	sv.WriteAt(sceneNode+offsets.Catalog.SceneNodeAbsOrigin, encodeVec3(4, 5, 6))
	sv.WriteAt(pawn+offsets.Catalog.PawnHealth, encodeUint32(100))

	g := NewGameState()
	g.LocalController = controller
	g.LocalPawn = pawn
	g.HasBombHolder = true
	g.BombHolder = pawn

	entity, ok := buildLocalEntity(sv, g)
	if !ok {
		t.Fatal("expected a local entity")
	}
	if entity.Player == nil {
		t.Fatal("expected a Player entity")
	}
	if entity.Player.Side != "Local" {
		t.Fatalf("expected Local side, got %v", entity.Player.Side)
	}
	if !entity.Player.HasBomb {
		t.Fatal("expected HasBomb true when LocalPawn holds the bomb")
	}
}

func encodeUint32(v uint32) []byte {
	buf := make([]byte, 4)
	for i := 0; i < 4; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return buf
}

func encodeVec3(x, y, z float32) []byte {
	buf := make([]byte, 12)
	putFloat32(buf[0:4], x)
	putFloat32(buf[4:8], y)
	putFloat32(buf[8:12], z)
	return buf
}

func putFloat32(buf []byte, v float32) {
	bits := math.Float32bits(v)
	buf[0] = byte(bits)
	buf[1] = byte(bits >> 8)
	buf[2] = byte(bits >> 16)
	buf[3] = byte(bits >> 24)
}
