// Package producer implements the Snapshot Builder and Temporal State
// Tracker: the single cooperative loop that re-traverses the target
// process's pointer graph, derives bomb-timer/holder state across polls,
// and publishes a fresh radar.RadarSnapshot every iteration that has new
// tick data.
package producer

import (
	"time"

	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
)

// PlayerSlot pairs a controller and pawn address for one active player.
type PlayerSlot struct {
	Controller memview.Address
	Pawn       memview.Address
}

// GameState is the producer-private working set rebuilt and refined every
// iteration. Nothing outside package producer ever sees it.
type GameState struct {
	ClientModule memview.ModuleInfo

	EntityListBase  memview.Address
	LocalController memview.Address
	LocalPawn       memview.Address
	BombEntity      memview.Address
	HasBombEntity   bool

	Players []PlayerSlot

	MapName           string
	TickCount         uint32
	LastPublishedTick uint32
	FreezePeriod      bool
	RoundStartCount uint8

	BombDropped      bool
	BombPlanted      bool
	BombExploded     bool
	BombDefused      bool
	BombBeingDefused bool

	BombHolder    memview.Address
	HasBombHolder bool

	BombPlantedStamp *time.Time
	BombDefuseStamp  *time.Time
	BombPlantDuration  float32
	BombDefuseDuration float32

	RecheckBombHolder bool
	MoneyRevealEnabled bool

	LocalTeam int32
}

// NewGameState returns a GameState ready for its first pointer refresh.
func NewGameState() *GameState {
	return &GameState{RecheckBombHolder: true}
}

// UpdatePointers resolves the entity-list base, local controller/pawn, the
// planted-bomb entity, and the (controller, pawn) pairs for every active
// player slot. Run on first iteration and at least every 10s thereafter.
//
// The real client entity list is a two-level chunked array; this adapter
// simplifies it to a flat slot array indexed directly by EntityListStride
// (documented in DESIGN.md).
func (g *GameState) UpdatePointers(mv memview.MemoryView) error {
	entityList, err := memview.ReadAddress(mv, g.ClientModule.Base+offsets.Module.EntityList)
	if err != nil {
		return err
	}
	g.EntityListBase = entityList

	localController, err := memview.ReadAddress(mv, g.ClientModule.Base+offsets.Module.LocalController)
	if err != nil {
		return err
	}
	g.LocalController = localController

	localPawn, err := memview.ReadAddress(mv, g.ClientModule.Base+offsets.Module.LocalPawn)
	if err != nil {
		return err
	}
	g.LocalPawn = localPawn

	if err := g.resolvePlantedBomb(mv); err != nil {
		return err
	}

	players := make([]PlayerSlot, 0, offsets.MaxPlayers)
	for slot := 0; slot < offsets.MaxPlayers; slot++ {
		slotAddr := entityList + memview.Address(slot)*offsets.Catalog.EntityListStride
		controller, err := memview.ReadAddress(mv, slotAddr)
		if err != nil || controller == 0 || controller == localController {
			continue
		}
		pawn, err := memview.ReadAddress(mv, controller+offsets.Catalog.ControllerPawnHandle)
		if err != nil || pawn == 0 {
			continue
		}
		players = append(players, PlayerSlot{Controller: controller, Pawn: pawn})
	}
	g.Players = players
	return nil
}

// resolvePlantedBomb re-resolves the planted-bomb entity address. Called
// during pointer refresh and again whenever bomb_dropped or bomb_planted
// just transitioned to true.
func (g *GameState) resolvePlantedBomb(mv memview.MemoryView) error {
	addr, err := memview.ReadAddress(mv, g.ClientModule.Base+offsets.Module.PlantedC4)
	if err != nil {
		return err
	}
	g.BombEntity = addr
	g.HasBombEntity = addr != 0
	return nil
}

// UpdateCommon reads the per-iteration cheap fields: map name, tick
// counter, freeze-period flag, round-start counter, and the bomb
// dropped/planted/exploded/defused flags.
func (g *GameState) UpdateCommon(mv memview.MemoryView) error {
	mapName, err := memview.ReadCString(mv, g.ClientModule.Base+offsets.Module.GlobalVars+offsets.GlobalVars.MapName, offsets.MapNameMaxLen)
	if err != nil {
		return err
	}
	g.MapName = mapName

	tick, err := memview.ReadUint32(mv, g.ClientModule.Base+offsets.Module.GlobalVars+offsets.GlobalVars.TickCount)
	if err != nil {
		return err
	}
	g.TickCount = tick

	var freezeByte [1]byte
	if err := mv.ReadInto(g.ClientModule.Base+offsets.Module.GameRules+offsets.GameRules.FreezePeriod, freezeByte[:]); err != nil {
		return err
	}
	g.FreezePeriod = freezeByte[0] != 0

	var roundStartByte [1]byte
	if err := mv.ReadInto(g.ClientModule.Base+offsets.Module.GameRules+offsets.GameRules.RoundStartCount, roundStartByte[:]); err != nil {
		return err
	}
	g.RoundStartCount = roundStartByte[0]

	if g.LocalPawn != 0 {
		var teamByte [1]byte
		if err := mv.ReadInto(g.LocalPawn+offsets.Catalog.PawnTeam, teamByte[:]); err == nil {
			g.LocalTeam = int32(teamByte[0])
		}
	}

	var plantedByte, droppedByte [1]byte
	if err := mv.ReadInto(g.ClientModule.Base+offsets.Module.GameRules+offsets.GameRules.BombPlanted, plantedByte[:]); err != nil {
		return err
	}
	if err := mv.ReadInto(g.ClientModule.Base+offsets.Module.GameRules+offsets.GameRules.BombDropped, droppedByte[:]); err != nil {
		return err
	}
	g.BombPlanted = plantedByte[0] != 0
	g.BombDropped = droppedByte[0] != 0

	if g.HasBombEntity {
		var explodedByte, defusedByte [1]byte
		if err := mv.ReadInto(g.BombEntity+offsets.Catalog.BombExploded, explodedByte[:]); err == nil {
			g.BombExploded = explodedByte[0] != 0
		}
		if err := mv.ReadInto(g.BombEntity+offsets.Catalog.BombDefused, defusedByte[:]); err == nil {
			g.BombDefused = defusedByte[0] != 0
		}

		var beingDefusedByte [1]byte
		if err := mv.ReadInto(g.BombEntity+offsets.Catalog.BombBeingDefused, beingDefusedByte[:]); err == nil {
			g.BombBeingDefused = beingDefusedByte[0] != 0
		}

		if dur, err := memview.ReadFloat32(mv, g.BombEntity+offsets.Catalog.BombPlantDuration); err == nil {
			g.BombPlantDuration = dur
		}
		if dur, err := memview.ReadFloat32(mv, g.BombEntity+offsets.Catalog.BombDefuseDuration); err == nil {
			g.BombDefuseDuration = dur
		}
	} else {
		g.BombBeingDefused = false
	}
	return nil
}

// TickAdvanced reports whether new tick data has arrived since the last
// published in-game snapshot.
func (g *GameState) TickAdvanced() bool {
	return g.TickCount != g.LastPublishedTick
}

// InGame reports whether the target process currently has a map loaded.
func (g *GameState) InGame() bool {
	return g.MapName != "" && g.MapName != "<empty>"
}
