// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

import (
	"fmt"
	"sync"
)

// Access operation types
const (
	OpRead = iota
	OpWrite
)

// Access represents a single recorded bus transaction.
type Access struct {
	Op    int
	Addr  uint
	Size  int
	Value uint32
}

func (a Access) String() string {
	op := "R"

	if a.Op == OpWrite {
		op = "W"
	}

	return fmt.Sprintf("%s%d %#08x %#x", op, a.Size*8, a.Addr, a.Value)
}

// Sim implements Bus over an in-memory register file, all accesses are
// recorded in order.
type Sim struct {
	sync.Mutex

	// OnRead, when set, is invoked before every read and can override
	// the stored value by returning true.
	OnRead func(addr uint, size int) (val uint32, ok bool)

	// OnWrite, when set, is invoked after every write.
	OnWrite func(addr uint, size int, val uint32)

	regs map[uint]uint32
	log  []Access
}

func mask(size int) uint32 {
	if size >= 4 {
		return 0xffffffff
	}

	return 1<<(uint(size)*8) - 1
}

func (s *Sim) read(addr uint, size int) (val uint32) {
	s.Lock()
	val = s.regs[addr] & mask(size)
	fn := s.OnRead
	s.Unlock()

	if fn != nil {
		if v, ok := fn(addr, size); ok {
			val = v & mask(size)
		}
	}

	s.Lock()
	s.log = append(s.log, Access{Op: OpRead, Addr: addr, Size: size, Value: val})
	s.Unlock()

	return
}

func (s *Sim) write(addr uint, size int, val uint32) {
	val &= mask(size)

	s.Lock()

	if s.regs == nil {
		s.regs = make(map[uint]uint32)
	}

	s.regs[addr] = val
	s.log = append(s.log, Access{Op: OpWrite, Addr: addr, Size: size, Value: val})
	fn := s.OnWrite

	s.Unlock()

	if fn != nil {
		fn(addr, size, val)
	}
}

// Set stores a register value without recording an access.
func (s *Sim) Set(addr uint, val uint32) {
	s.Lock()
	defer s.Unlock()

	if s.regs == nil {
		s.regs = make(map[uint]uint32)
	}

	s.regs[addr] = val
}

// Get returns a register value without recording an access.
func (s *Sim) Get(addr uint) uint32 {
	s.Lock()
	defer s.Unlock()

	return s.regs[addr]
}

// Log returns a copy of all recorded accesses.
func (s *Sim) Log() []Access {
	s.Lock()
	defer s.Unlock()

	return append([]Access(nil), s.log...)
}

// Reset clears the access log.
func (s *Sim) Reset() {
	s.Lock()
	defer s.Unlock()

	s.log = nil
}

func (s *Sim) Read8(addr uint) uint8   { return uint8(s.read(addr, 1)) }
func (s *Sim) Read16(addr uint) uint16 { return uint16(s.read(addr, 2)) }
func (s *Sim) Read32(addr uint) uint32 { return s.read(addr, 4) }

func (s *Sim) Write8(addr uint, val uint8)   { s.write(addr, 1, uint32(val)) }
func (s *Sim) Write16(addr uint, val uint16) { s.write(addr, 2, uint32(val)) }
func (s *Sim) Write32(addr uint, val uint32) { s.write(addr, 4, val) }
