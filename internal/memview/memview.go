// Package memview defines the typed memory-view contract the rest of the
// pipeline reads the target process through, and a pattern scanner built on
// top of it. The concrete DMA/kernel-bypass transport is an external
// collaborator; this package only needs an interface narrow enough that the
// producer never cares whether reads come over PCIe or, in tests, a plain
// byte slice.
package memview

import (
	"encoding/binary"
	"math"
)

// Address is a pointer-sized address in the target process.
type Address uint64

// ModuleInfo describes a loaded module in the target process.
type ModuleInfo struct {
	Base Address
	Size uint64
}

// BatchRead describes one request in a BatchedReads call.
type BatchRead struct {
	Addr Address
	Len  int
}

// MemoryView is the out-of-process memory transport contract. All reads are
// unchecked with respect to foreign validity: implementations return
// errs.Transport (wrapped) on any failure, and callers treat that as "skip
// this datum this tick" rather than fatal.
type MemoryView interface {
	ReadInto(addr Address, buf []byte) error
	Write(addr Address, data []byte) error
	BatchedReads(reqs []BatchRead) ([][]byte, error)
	ModuleInfo(name string) (ModuleInfo, error)
	ProcessAlive() bool
	PatternScan(mod ModuleInfo, pattern string) (Address, bool, error)
}

// ReadUint32 reads a little-endian uint32 at addr.
func ReadUint32(mv MemoryView, addr Address) (uint32, error) {
	var buf [4]byte
	if err := mv.ReadInto(addr, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadInt32 reads a little-endian int32 at addr.
func ReadInt32(mv MemoryView, addr Address) (int32, error) {
	v, err := ReadUint32(mv, addr)
	return int32(v), err
}

// ReadInt16 reads a little-endian int16 at addr.
func ReadInt16(mv MemoryView, addr Address) (int16, error) {
	var buf [2]byte
	if err := mv.ReadInto(addr, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// ReadFloat32 reads a little-endian float32 at addr.
func ReadFloat32(mv MemoryView, addr Address) (float32, error) {
	v, err := ReadUint32(mv, addr)
	return math.Float32frombits(v), err
}

// ReadAddress reads a pointer-sized value (8 bytes) at addr.
func ReadAddress(mv MemoryView, addr Address) (Address, error) {
	var buf [8]byte
	if err := mv.ReadInto(addr, buf[:]); err != nil {
		return 0, err
	}
	return Address(binary.LittleEndian.Uint64(buf[:])), nil
}

// ReadVec3 reads three consecutive little-endian float32s at addr.
func ReadVec3(mv MemoryView, addr Address) (x, y, z float32, err error) {
	var buf [12]byte
	if err := mv.ReadInto(addr, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	x = math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	y = math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	z = math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12]))
	return x, y, z, nil
}

// ReadCString reads up to maxLen bytes at addr and returns the NUL-terminated
// prefix as a string.
func ReadCString(mv MemoryView, addr Address, maxLen int) (string, error) {
	buf := make([]byte, maxLen)
	if err := mv.ReadInto(addr, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}
