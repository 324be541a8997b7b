// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package reg

import (
	"fmt"
	"sync"

	"github.com/u-root/u-root/pkg/memio"
)

// DevMemPath is the Linux physical memory device.
const DevMemPath = "/dev/mem"

// DevMem implements Bus over Linux /dev/mem, it allows peripheral bring-up
// from user space on systems where the kernel does not claim the device.
//
// Bus accesses cannot return errors, the first failed access is retained
// and returned by Err().
type DevMem struct {
	sync.Mutex

	mem *memio.MMap
	err error
}

// OpenDevMem opens a physical memory device (e.g. DevMemPath) for register
// accesses.
func OpenDevMem(path string) (d *DevMem, err error) {
	mem, err := memio.NewMMap(path)

	if err != nil {
		return nil, fmt.Errorf("could not open %s, %v", path, err)
	}

	return &DevMem{mem: mem}, nil
}

// Close releases the physical memory device.
func (d *DevMem) Close() error {
	return d.mem.Close()
}

func (d *DevMem) fail(op string, addr uint, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%s %#x, %v", op, addr, err)
	}
}

// Err returns the first access error, if any.
func (d *DevMem) Err() error {
	d.Lock()
	defer d.Unlock()

	return d.err
}

func (d *DevMem) read(addr uint, data memio.UintN) {
	d.Lock()
	defer d.Unlock()

	if err := d.mem.ReadAt(int64(addr), data); err != nil {
		d.fail("read", addr, err)
	}
}

func (d *DevMem) write(addr uint, data memio.UintN) {
	d.Lock()
	defer d.Unlock()

	if err := d.mem.WriteAt(int64(addr), data); err != nil {
		d.fail("write", addr, err)
	}
}

func (d *DevMem) Read8(addr uint) uint8 {
	var v memio.Uint8
	d.read(addr, &v)
	return uint8(v)
}

func (d *DevMem) Read16(addr uint) uint16 {
	var v memio.Uint16
	d.read(addr, &v)
	return uint16(v)
}

func (d *DevMem) Read32(addr uint) uint32 {
	var v memio.Uint32
	d.read(addr, &v)
	return uint32(v)
}

func (d *DevMem) Write8(addr uint, val uint8) {
	v := memio.Uint8(val)
	d.write(addr, &v)
}

func (d *DevMem) Write16(addr uint, val uint16) {
	v := memio.Uint16(val)
	d.write(addr, &v)
}

func (d *DevMem) Write32(addr uint, val uint32) {
	v := memio.Uint32(val)
	d.write(addr, &v)
}
