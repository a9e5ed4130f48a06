package radar

// CheatOptions mirrors the in-game overlay toggles surfaced to the client.
// DisplayMoney defaults to true and RevealMoney to false, matching the
// original client's CheatOptions::default().
type CheatOptions struct {
	RevealMoney bool `json:"revealMoney"`
	DisplayMoney bool `json:"displayMoney"`
}

// DefaultCheatOptions is the zero-value-safe default for a fresh snapshot.
func DefaultCheatOptions() CheatOptions {
	return CheatOptions{RevealMoney: false, DisplayMoney: true}
}

// RadarSnapshot is the immutable, per-iteration summary of match state
// published to the Shared Cell. MoneyRevealEnabled is process-internal and
// deliberately excluded from the JSON wire shape (json:"-").
type RadarSnapshot struct {
	Freq               uint32   `json:"freq"`
	Ingame             bool     `json:"ingame"`
	MapName            string   `json:"mapName"`
	Entities           []Entity `json:"entityData"`
	BombPlanted        bool     `json:"bombPlanted"`
	BombExploded       bool     `json:"bombExploded"`
	BombBeingDefused   bool     `json:"bombBeingDefused"`
	BombCanDefuse      bool     `json:"bombCanDefuse"`
	BombDefuseLength   float32  `json:"bombDefuseLength"`
	BombDefuseTimeleft float32  `json:"bombDefuseTimeleft"`
	BombDefuseEnd      float32  `json:"bombDefuseEnd"`
	Options            CheatOptions `json:"options"`

	MoneyRevealEnabled bool `json:"-"`
}

// Empty returns the canonical "not in game" snapshot: invariant 1 requires
// an empty entity list, empty map name, and zeroed bomb fields. freq and
// moneyRevealEnabled are preserved across the ingame/not-ingame boundary
// per spec step 9.
func Empty(freq uint32, moneyRevealEnabled bool) RadarSnapshot {
	return RadarSnapshot{
		Freq:               freq,
		Ingame:             false,
		MapName:            "",
		Entities:           []Entity{},
		Options:            DefaultCheatOptions(),
		MoneyRevealEnabled: moneyRevealEnabled,
	}
}

// bombEntityCount counts the Bomb variants in entities, used by tests
// asserting invariant 2 (at most one Bomb entity).
func (s RadarSnapshot) bombEntityCount() int {
	n := 0
	for _, e := range s.Entities {
		if e.Bomb != nil {
			n++
		}
	}
	return n
}

// bombCarrierCount counts players with HasBomb set, used by tests asserting
// invariant 3 (at most one carrier).
func (s RadarSnapshot) bombCarrierCount() int {
	n := 0
	for _, e := range s.Entities {
		if e.Player != nil && e.Player.HasBomb {
			n++
		}
	}
	return n
}
