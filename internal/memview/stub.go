package memview

import (
	"fmt"
	"sync"

	"github.com/codjointops/radarflow-bridge/internal/errs"
)

// StubView is an in-memory MemoryView backed by a set of named byte-slice
// "modules". It exists for two reasons: it lets the producer run against a
// synthetic process image in tests, and it is the dev-mode stand-in when no
// real DMA transport is configured.
type StubView struct {
	mu      sync.RWMutex
	modules map[string]ModuleInfo
	memory  map[Address][]byte // sparse page-less backing store, keyed by base
	alive   bool
}

// NewStubView creates an empty StubView marked alive.
func NewStubView() *StubView {
	return &StubView{
		modules: make(map[string]ModuleInfo),
		memory:  make(map[Address][]byte),
		alive:   true,
	}
}

// SetAlive controls what ProcessAlive reports; used to simulate process exit.
func (s *StubView) SetAlive(alive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = alive
}

// MapModule registers a module's base/size and backs it with image bytes,
// readable via ReadInto/PatternScan at absolute addresses starting at base.
func (s *StubView) MapModule(name string, base Address, image []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[name] = ModuleInfo{Base: base, Size: uint64(len(image))}
	s.memory[base] = image
}

// WriteAt seeds or overwrites raw bytes at an absolute address, independent
// of module mapping. Useful for placing controller/pawn/entity structures.
func (s *StubView) WriteAt(addr Address, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeAtLocked(addr, data)
}

func (s *StubView) writeAtLocked(addr Address, data []byte) {
	for base, buf := range s.memory {
		if addr >= base && int(addr-base)+len(data) <= len(buf) {
			copy(buf[addr-base:], data)
			return
		}
	}
	// No existing region covers this address: allocate a dedicated one.
	s.memory[addr] = append([]byte(nil), data...)
}

func (s *StubView) ReadInto(addr Address, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for base, region := range s.memory {
		if addr >= base && int(addr-base)+len(buf) <= len(region) {
			copy(buf, region[addr-base:])
			return nil
		}
	}
	return fmt.Errorf("memview: read 0x%x len %d: %w", addr, len(buf), errs.Transport)
}

func (s *StubView) Write(addr Address, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for base, region := range s.memory {
		if addr >= base && int(addr-base)+len(data) <= len(region) {
			copy(region[addr-base:], data)
			return nil
		}
	}
	return fmt.Errorf("memview: write 0x%x len %d: %w", addr, len(data), errs.Transport)
}

func (s *StubView) BatchedReads(reqs []BatchRead) ([][]byte, error) {
	out := make([][]byte, len(reqs))
	for i, r := range reqs {
		buf := make([]byte, r.Len)
		if err := s.ReadInto(r.Addr, buf); err != nil {
			return nil, err
		}
		out[i] = buf
	}
	return out, nil
}

func (s *StubView) ModuleInfo(name string) (ModuleInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mi, ok := s.modules[name]
	if !ok {
		return ModuleInfo{}, fmt.Errorf("memview: module %q: %w", name, errs.Transport)
	}
	return mi, nil
}

func (s *StubView) ProcessAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive
}

func (s *StubView) PatternScan(mod ModuleInfo, pattern string) (Address, bool, error) {
	tokens, err := ParsePattern(pattern)
	if err != nil {
		return 0, false, err
	}
	s.mu.RLock()
	image, ok := s.memory[mod.Base]
	s.mu.RUnlock()
	if !ok {
		return 0, false, fmt.Errorf("memview: no image for module base 0x%x: %w", mod.Base, errs.Transport)
	}
	off := ScanBytes(image, tokens)
	if off < 0 {
		return 0, false, nil
	}
	return mod.Base + Address(off), true, nil
}
