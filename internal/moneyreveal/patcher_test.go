package moneyreveal

import (
	"errors"
	"testing"

	"github.com/codjointops/radarflow-bridge/internal/errs"
	"github.com/codjointops/radarflow-bridge/internal/memview"
)

func setup(t *testing.T) (*memview.StubView, memview.ModuleInfo) {
	t.Helper()
	sv := memview.NewStubView()
	image := []byte{0xB0, 0x01, 0xC3, 0x28, 0x48, 0x8B, 0x0D, 0x11, 0x22, 0x33, 0x44, 0x48, 0x8B, 0x01, 0xFF, 0x90, 0x01, 0x02, 0x03, 0x04, 0x84, 0xC0, 0x75, 0x0D}
	sv.MapModule("client.dll", 0x5000, image)
	mod, err := sv.ModuleInfo("client.dll")
	if err != nil {
		t.Fatalf("ModuleInfo: %v", err)
	}
	return sv, mod
}

func TestToggleBeforeInitFails(t *testing.T) {
	var p Patcher
	sv, _ := setup(t)
	if _, err := p.Toggle(sv); !errors.Is(err, errs.NotInitialized) {
		t.Fatalf("expected NotInitialized, got %v", err)
	}
}

// Toggling an even number of times restores the original bytes.
func TestToggleEvenCountRestoresBytes(t *testing.T) {
	var p Patcher
	sv, mod := setup(t)

	if err := p.Init(sv, mod); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var before [3]byte
	if err := sv.ReadInto(mod.Base, before[:]); err != nil {
		t.Fatalf("read before: %v", err)
	}

	for i := 0; i < 6; i++ {
		if _, err := p.Toggle(sv); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	var after [3]byte
	if err := sv.ReadInto(mod.Base, after[:]); err != nil {
		t.Fatalf("read after: %v", err)
	}
	if before != after {
		t.Fatalf("bytes not restored after even toggles: before=%v after=%v", before, after)
	}
	if p.Enabled() {
		t.Fatal("expected disabled after even number of toggles")
	}
}

func TestEnsureDisabledIdempotent(t *testing.T) {
	var p Patcher
	sv, mod := setup(t)
	if err := p.Init(sv, mod); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var before [3]byte
	_ = sv.ReadInto(mod.Base, before[:])

	if _, err := p.Toggle(sv); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := p.EnsureDisabled(sv); err != nil {
		t.Fatalf("ensure disabled: %v", err)
	}
	if err := p.EnsureDisabled(sv); err != nil {
		t.Fatalf("ensure disabled (idempotent call): %v", err)
	}
	if p.Enabled() {
		t.Fatal("expected disabled after EnsureDisabled")
	}

	var after [3]byte
	_ = sv.ReadInto(mod.Base, after[:])
	if before != after {
		t.Fatalf("bytes not restored: before=%v after=%v", before, after)
	}
}
