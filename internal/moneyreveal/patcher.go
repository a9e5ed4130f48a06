// Package moneyreveal implements the idempotent 3-byte code patch that
// toggles the in-game "money reveal" behavior: two candidate signature
// patterns (a primary and an HLTV fallback), a 3-byte return-true stub, and
// an init/toggle/ensure-disabled lifecycle.
package moneyreveal

import (
	"fmt"

	"github.com/codjointops/radarflow-bridge/internal/errs"
	"github.com/codjointops/radarflow-bridge/internal/memview"
)

const patchSize = 3

var patchBytes = [patchSize]byte{0xB0, 0x01, 0xC3} // MOV AL,1 ; RET

const (
	primaryPattern = "48 83 EC 28 48 8B 0D ?? ?? ?? ?? 48 8B 01 FF 90 ?? ?? ?? ?? 84 C0 75 0D"
	hltvFallback   = "B0 01 C3 28 48 8B 0D ?? ?? ?? ?? 48 8B 01 FF 90 ?? ?? ?? ?? 84 C0 75 0D"
)

// Patcher toggles the money-reveal patch at a scanned code site. Zero value
// is a valid, not-yet-initialized Patcher.
type Patcher struct {
	address       memview.Address
	hasAddress    bool
	enabled       bool
	originalBytes [patchSize]byte
	hasOriginal   bool
}

// Init pattern-scans the client module for the money-reveal function. A
// failure to find either signature is non-fatal: it leaves the Patcher
// uninitialized and later Toggle calls return errs.NotInitialized.
func (p *Patcher) Init(mv memview.MemoryView, clientModule memview.ModuleInfo) error {
	addr, found, err := mv.PatternScan(clientModule, primaryPattern)
	if err != nil {
		return fmt.Errorf("moneyreveal: init: %w", err)
	}
	if !found {
		addr, found, err = mv.PatternScan(clientModule, hltvFallback)
		if err != nil {
			return fmt.Errorf("moneyreveal: init: %w", err)
		}
	}
	if !found {
		return fmt.Errorf("moneyreveal: init: %w", errs.PatternNotFound)
	}
	p.address = addr
	p.hasAddress = true
	return nil
}

// Initialized reports whether Init found a usable address.
func (p *Patcher) Initialized() bool { return p.hasAddress }

// Enabled reports the current toggle state.
func (p *Patcher) Enabled() bool { return p.enabled }

// Toggle flips the patch: if enabled, restores the original bytes and
// clears them; otherwise saves the current bytes and writes the stub.
// Returns the new enabled state.
func (p *Patcher) Toggle(mv memview.MemoryView) (bool, error) {
	if !p.hasAddress {
		return false, fmt.Errorf("moneyreveal: toggle: %w", errs.NotInitialized)
	}

	if p.enabled {
		if err := mv.Write(p.address, p.originalBytes[:]); err != nil {
			return false, fmt.Errorf("moneyreveal: restore: %w", err)
		}
		p.hasOriginal = false
		p.enabled = false
		return false, nil
	}

	var current [patchSize]byte
	if err := mv.ReadInto(p.address, current[:]); err != nil {
		return false, fmt.Errorf("moneyreveal: read original: %w", err)
	}
	if err := mv.Write(p.address, patchBytes[:]); err != nil {
		return false, fmt.Errorf("moneyreveal: patch: %w", err)
	}
	p.originalBytes = current
	p.hasOriginal = true
	p.enabled = true
	return true, nil
}

// EnsureDisabled restores original bytes if the patch is currently enabled.
// Idempotent: calling it repeatedly, or interleaved with Toggle, never
// leaves originalBytes populated while enabled is false.
func (p *Patcher) EnsureDisabled(mv memview.MemoryView) error {
	if !p.enabled {
		return nil
	}
	if !p.hasAddress || !p.hasOriginal {
		p.enabled = false
		return nil
	}
	if err := mv.Write(p.address, p.originalBytes[:]); err != nil {
		return fmt.Errorf("moneyreveal: ensure disabled: %w", err)
	}
	p.hasOriginal = false
	p.enabled = false
	return nil
}
