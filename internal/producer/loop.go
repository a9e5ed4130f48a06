package producer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/moneyreveal"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

const pointerRefreshInterval = 10 * time.Second
const iterationSleep = time.Millisecond

// Loop is the single cooperative goroutine that owns a GameState and
// repeatedly re-derives a radar.RadarSnapshot from the target process,
// publishing it to a shared Cell. One Loop per process.
type Loop struct {
	mv               memview.MemoryView
	clientModuleName string
	cell             *radar.Cell
	patcher          *moneyreveal.Patcher
	log              *zap.Logger

	state *GameState

	lastPointerRefresh  time.Time
	lastBombDropped     bool
	lastBombPlanted     bool
	lastFreezePeriod    bool
	lastRoundStartCount uint8

	iterCount   uint32
	windowStart time.Time
	freq        uint32
}

// NewLoop constructs a Loop ready to Run. clientModuleName is resolved via
// MemoryView.ModuleInfo on the first iteration.
func NewLoop(mv memview.MemoryView, clientModuleName string, cell *radar.Cell, patcher *moneyreveal.Patcher, log *zap.Logger) *Loop {
	return &Loop{
		mv:               mv,
		clientModuleName: clientModuleName,
		cell:             cell,
		patcher:          patcher,
		log:              log,
		state:            NewGameState(),
	}
}

// Run drives the loop until ctx is canceled, at which point it restores any
// active money-reveal patch before returning.
func (l *Loop) Run(ctx context.Context) error {
	l.windowStart = time.Now()

	for {
		select {
		case <-ctx.Done():
			if err := l.patcher.EnsureDisabled(l.mv); err != nil {
				l.log.Warn("ensure disabled on shutdown", zap.Error(err))
			}
			return nil
		default:
		}

		if !l.mv.ProcessAlive() {
			l.log.Warn("target process not alive, publishing empty snapshot")
			l.cell.Publish(radar.Empty(l.freq, false))
			time.Sleep(iterationSleep)
			continue
		}

		if err := l.tick(); err != nil {
			l.log.Warn("producer iteration failed", zap.Error(err))
		}

		l.advanceCadence()
		time.Sleep(iterationSleep)
	}
}

// tick runs one full pass of the 13-step sequence: pointer refresh, common
// fields, money-reveal sync, bomb re-scan, holder resolution, timer
// derivation, the in-game/tick gates, entity build, and publish.
func (l *Loop) tick() error {
	g := l.state

	if g.ClientModule.Base == 0 {
		mod, err := l.mv.ModuleInfo(l.clientModuleName)
		if err != nil {
			return err
		}
		g.ClientModule = mod
		if err := l.patcher.Init(l.mv, mod); err != nil {
			l.log.Warn("money reveal patcher init failed", zap.Error(err))
		}
	}

	if l.lastPointerRefresh.IsZero() || time.Since(l.lastPointerRefresh) >= pointerRefreshInterval {
		if err := g.UpdatePointers(l.mv); err != nil {
			return err
		}
		l.lastPointerRefresh = time.Now()
	}

	if err := g.UpdateCommon(l.mv); err != nil {
		return err
	}

	wantMoneyReveal := l.cell.MoneyRevealEnabled()
	if wantMoneyReveal != l.patcher.Enabled() {
		if _, err := l.patcher.Toggle(l.mv); err != nil {
			l.log.Debug("money reveal toggle skipped", zap.Error(err))
		}
	}
	g.MoneyRevealEnabled = l.patcher.Enabled()

	droppedEdge := g.BombDropped && !l.lastBombDropped
	plantedEdge := g.BombPlanted && !l.lastBombPlanted
	if droppedEdge || plantedEdge {
		if err := g.resolvePlantedBomb(l.mv); err != nil {
			l.log.Debug("bomb re-scan failed", zap.Error(err))
		}
	}
	l.lastBombDropped = g.BombDropped
	l.lastBombPlanted = g.BombPlanted

	now := time.Now()
	switch {
	case g.BombPlanted && g.BombPlantedStamp == nil:
		g.BombPlantedStamp = &now
	case !g.BombPlanted:
		g.BombPlantedStamp = nil
		g.BombDefuseStamp = nil
	}
	switch {
	case g.BombBeingDefused && g.BombDefuseStamp == nil:
		g.BombDefuseStamp = &now
	case !g.BombBeingDefused:
		g.BombDefuseStamp = nil
	}

	freezeEdge := g.FreezePeriod != l.lastFreezePeriod
	roundStartEdge := g.RoundStartCount != l.lastRoundStartCount
	if freezeEdge || roundStartEdge || droppedEdge || plantedEdge {
		g.RecheckBombHolder = true
	}
	l.lastFreezePeriod = g.FreezePeriod
	l.lastRoundStartCount = g.RoundStartCount

	if g.RecheckBombHolder {
		if err := g.ResolveBombHolder(l.mv); err != nil {
			l.log.Debug("bomb holder resolution failed", zap.Error(err))
		}
	}

	timeLeft, defuseEnd, canDefuse := g.BombTimers(time.Now())

	if !g.InGame() {
		l.cell.Publish(radar.Empty(l.freq, g.MoneyRevealEnabled))
		return nil
	}

	if !g.TickAdvanced() {
		return nil
	}

	entities := make([]radar.Entity, 0, len(g.Players)+2)
	if local, ok := buildLocalEntity(l.mv, g); ok {
		entities = append(entities, local)
	}
	entities = append(entities, buildPlayerEntities(l.mv, g)...)
	if bomb, ok := buildBombEntity(l.mv, g, offsets.Catalog.PawnSceneNode, offsets.Catalog.SceneNodeAbsOrigin); ok {
		entities = append(entities, bomb)
	}

	snap := radar.RadarSnapshot{
		Freq:               l.freq,
		Ingame:             true,
		MapName:            g.MapName,
		Entities:           entities,
		BombPlanted:        g.BombPlanted,
		BombExploded:       g.BombExploded,
		BombBeingDefused:   g.BombBeingDefused,
		BombCanDefuse:      canDefuse,
		BombDefuseLength:   g.BombDefuseDuration,
		BombDefuseTimeleft: timeLeft,
		BombDefuseEnd:      defuseEnd,
		Options:            radar.DefaultCheatOptions(),
	}
	l.cell.Publish(snap)
	g.LastPublishedTick = g.TickCount

	return nil
}

// advanceCadence updates the rolling one-second iteration-frequency counter
// published as RadarSnapshot.Freq.
func (l *Loop) advanceCadence() {
	l.iterCount++
	if elapsed := time.Since(l.windowStart); elapsed >= time.Second {
		l.freq = l.iterCount
		l.iterCount = 0
		l.windowStart = time.Now()
	}
}
