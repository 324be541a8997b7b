// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package reg provides register access primitives for memory mapped
// peripherals.
//
// A Bus performs the actual loads and stores, a Window translates logical
// register indexes of a single device into bus accesses of the configured
// width and spacing.
package reg

// Bus represents a physical address space supporting 8, 16 and 32-bit
// accesses.
type Bus interface {
	Read8(addr uint) uint8
	Read16(addr uint) uint16
	Read32(addr uint) uint32

	Write8(addr uint, val uint8)
	Write16(addr uint, val uint16)
	Write32(addr uint, val uint32)
}

// Window represents the register block of a single device.
type Window struct {
	// Bus is the address space the register block lives in
	Bus Bus

	// Base is the address of register index 0
	Base uint

	// Shift converts a register index into a byte offset
	// (offset = index << Shift)
	Shift uint32

	// Width is the access size in bytes, values other than 1 or 2 select
	// 32-bit accesses.
	Width uint32
}

// Addr returns the address of register index num.
func (w *Window) Addr(num uint32) uint {
	return w.Base + uint(num<<w.Shift)
}

// Size returns the effective access size in bytes.
func (w *Window) Size() int {
	switch w.Width {
	case 1, 2:
		return int(w.Width)
	default:
		return 4
	}
}

// Read returns the value of register index num widened to 32 bits.
func (w *Window) Read(num uint32) uint32 {
	addr := w.Addr(num)

	switch w.Width {
	case 1:
		return uint32(w.Bus.Read8(addr))
	case 2:
		return uint32(w.Bus.Read16(addr))
	default:
		return w.Bus.Read32(addr)
	}
}

// Write sets register index num, val is truncated to the access width.
func (w *Window) Write(num uint32, val uint32) {
	addr := w.Addr(num)

	switch w.Width {
	case 1:
		w.Bus.Write8(addr, uint8(val))
	case 2:
		w.Bus.Write16(addr, uint16(val))
	default:
		w.Bus.Write32(addr, val)
	}
}
