package producer

import (
	"time"

	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
)

// BombState names a point in the bomb's Idle/Carried/Dropped/Planted/
// Exploded/Defused life cycle, for diagnostic logging only.
type BombState string

const (
	BombIdle     BombState = "Idle"
	BombCarried  BombState = "Carried"
	BombDropped  BombState = "Dropped"
	BombPlanted  BombState = "Planted"
	BombExploded BombState = "Exploded"
	BombDefused  BombState = "Defused"
)

// CurrentBombState classifies the present GameState against the bomb life
// cycle, for diagnostic logging only — it is never part of the published
// wire shape.
func (g *GameState) CurrentBombState() BombState {
	switch {
	case g.BombExploded:
		return BombExploded
	case g.BombDefused:
		return BombDefused
	case g.BombPlanted:
		return BombPlanted
	case g.HasBombHolder:
		return BombCarried
	case g.BombDropped:
		return BombDropped
	default:
		return BombIdle
	}
}

// ResolveBombHolder iterates every known pawn (local plus all tracked
// controllers) reading each one's bomb-services pointer to find whichever
// pawn currently carries the C4. A none-to-some transition implies pickup,
// which also clears BombDropped.
func (g *GameState) ResolveBombHolder(mv memview.MemoryView) error {
	prevHolder, hadHolder := g.BombHolder, g.HasBombHolder

	pawns := make([]memview.Address, 0, len(g.Players)+1)
	if g.LocalPawn != 0 {
		pawns = append(pawns, g.LocalPawn)
	}
	for _, p := range g.Players {
		pawns = append(pawns, p.Pawn)
	}

	g.HasBombHolder = false
	g.BombHolder = 0
	for _, pawn := range pawns {
		bombServices, err := memview.ReadAddress(mv, pawn+offsets.Catalog.PawnBombServices)
		if err != nil {
			continue // per-read failure: skip this datum this tick
		}
		if bombServices != 0 {
			g.BombHolder = pawn
			g.HasBombHolder = true
			break
		}
	}

	if g.HasBombHolder && !hadHolder {
		g.BombDropped = false
	}
	_ = prevHolder
	g.RecheckBombHolder = false
	return nil
}

// BombTimers derives the defuse-timeleft/defuse-end/can-defuse triple
// purely from stamps captured with a monotonic clock (time.Now()'s
// monotonic reading, never wall-clock) so scheduling jitter in the
// producer never perturbs the numbers.
func (g *GameState) BombTimers(now time.Time) (timeLeft, defuseEnd float32, canDefuse bool) {
	active := g.BombPlanted && !g.BombExploded && !g.BombDefused
	if !active || g.BombPlantedStamp == nil {
		return 0, 0, false
	}

	timeLeft = g.BombPlantDuration - float32(now.Sub(*g.BombPlantedStamp).Seconds())
	if timeLeft < 0 {
		timeLeft = 0
	}

	if g.BombDefuseStamp == nil {
		return timeLeft, 0, false
	}

	defuseLeft := g.BombDefuseDuration - float32(now.Sub(*g.BombDefuseStamp).Seconds())
	canDefuse = (timeLeft - defuseLeft) > 0
	if !canDefuse {
		return timeLeft, 0, false
	}
	defuseEnd = timeLeft - defuseLeft
	return timeLeft, defuseEnd, true
}
