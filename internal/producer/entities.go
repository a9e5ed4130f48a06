package producer

import (
	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

// classifySide implements the team-equality-only rule: a player shares the
// local player's team value maps to Team, anything else to Enemy. There is
// no special-casing of spectator or unassigned team IDs.
func classifySide(localTeam, playerTeam int32) radar.PlayerSide {
	if playerTeam == localTeam {
		return radar.SideTeam
	}
	return radar.SideEnemy
}

// buildPlayerEntities walks every tracked player slot, reads it, and turns
// each into a radar.Entity. A per-player read failure drops that player
// from this iteration's snapshot rather than aborting the whole build.
func buildPlayerEntities(mv memview.MemoryView, g *GameState) []radar.Entity {
	entities := make([]radar.Entity, 0, len(g.Players))
	for _, slot := range g.Players {
		pr, err := ReadPlayer(mv, slot.Controller, slot.Pawn)
		if err != nil {
			continue
		}

		side := classifySide(g.LocalTeam, pr.Team)
		hasBomb := g.HasBombHolder && g.BombHolder == slot.Pawn

		snap := radar.PlayerSnapshot{
			Pos:      radar.Vec3{X: pr.Pos[0], Y: pr.Pos[1], Z: pr.Pos[2]},
			Yaw:      pr.Yaw,
			Side:     side,
			HasBomb:  hasBomb,
			HasAwp:   pr.HasAwp,
			IsScoped: pr.IsScoped,
			Name:     pr.Name,
			WeaponID: pr.WeaponID,
			Money:    pr.Money,
			Health:   pr.Health,
		}
		entities = append(entities, radar.NewPlayerEntity(snap))
	}
	return entities
}

// buildLocalEntity reads the local controller/pawn pair via ReadPlayer and
// turns it into the one Local-side radar.Entity. The local controller is
// deliberately excluded from GameState.Players (see UpdatePointers), so
// this is the only place SideLocal is ever assigned.
func buildLocalEntity(mv memview.MemoryView, g *GameState) (radar.Entity, bool) {
	if g.LocalController == 0 || g.LocalPawn == 0 {
		return radar.Entity{}, false
	}

	pr, err := ReadPlayer(mv, g.LocalController, g.LocalPawn)
	if err != nil || pr.Health == 0 {
		return radar.Entity{}, false
	}

	hasBomb := g.HasBombHolder && g.BombHolder == g.LocalPawn

	snap := radar.PlayerSnapshot{
		Pos:      radar.Vec3{X: pr.Pos[0], Y: pr.Pos[1], Z: pr.Pos[2]},
		Yaw:      pr.Yaw,
		Side:     radar.SideLocal,
		HasBomb:  hasBomb,
		HasAwp:   pr.HasAwp,
		IsScoped: pr.IsScoped,
		Name:     pr.Name,
		WeaponID: pr.WeaponID,
		Money:    pr.Money,
		Health:   pr.Health,
	}
	return radar.NewPlayerEntity(snap), true
}

// buildBombEntity produces the single Bomb entity when the C4 is planted,
// enforcing the at-most-one-bomb-entity invariant: a dropped or carried
// bomb never appears as a separate wire entity, only the Planted flag and
// whichever player's HasBomb bit reflect its state.
func buildBombEntity(mv memview.MemoryView, g *GameState, offsetSceneNode, offsetAbsOrigin memview.Address) (radar.Entity, bool) {
	if !g.HasBombEntity || !g.BombPlanted {
		return radar.Entity{}, false
	}

	sceneNode, err := memview.ReadAddress(mv, g.BombEntity+offsetSceneNode)
	if err != nil {
		return radar.Entity{}, false
	}
	x, y, z, err := memview.ReadVec3(mv, sceneNode+offsetAbsOrigin)
	if err != nil {
		return radar.Entity{}, false
	}

	snap := radar.BombSnapshot{
		Pos:     radar.Vec3{X: x, Y: y, Z: z},
		Planted: true,
	}
	return radar.NewBombEntity(snap), true
}
