package radar

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the externally-tagged {"Player": {...}} or
// {"Bomb": {...}} shape the web UI expects.
func (e Entity) MarshalJSON() ([]byte, error) {
	switch {
	case e.Player != nil:
		return json.Marshal(struct {
			Player *PlayerSnapshot `json:"Player"`
		}{e.Player})
	case e.Bomb != nil:
		return json.Marshal(struct {
			Bomb *BombSnapshot `json:"Bomb"`
		}{e.Bomb})
	default:
		return nil, fmt.Errorf("radar: entity has neither Player nor Bomb set")
	}
}

// UnmarshalJSON accepts either externally-tagged variant. Used by tests that
// round-trip a RadarSnapshot through JSON.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Player *PlayerSnapshot `json:"Player"`
		Bomb   *BombSnapshot   `json:"Bomb"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	e.Player = wrapper.Player
	e.Bomb = wrapper.Bomb
	return nil
}
