// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package fdt implements discovery of the SiliconWaves W3K UART from a
// Flattened Device Tree, following the 8250 serial device tree bindings.
package fdt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/usbarmory/w3k-uart/uart"
)

// Default property values
const (
	DefaultFreq       = 0
	DefaultBaud       = 115200
	DefaultRegShift   = 0
	DefaultRegIOWidth = 1
	DefaultRegOffset  = 0
)

// Default cell sizes for nodes lacking #address-cells and #size-cells
const (
	defaultAddressCells = 2
	defaultSizeCells    = 1
)

// Compatible lists the device tree compatible strings handled by Configure.
var Compatible = []string{
	uart.Compatible,
}

// ErrNotFound is returned when no enabled compatible node is present.
var ErrNotFound = errors.New("no compatible serial node found")

// UARTData represents the serial port configuration parsed from a device
// tree node.
type UARTData struct {
	Addr       uint64
	Size       uint64
	Freq       uint32
	Baud       uint32
	RegShift   uint32
	RegIOWidth uint32
	RegOffset  uint32
}

// Load reads a Flattened Device Tree blob from path.
func Load(path string) (*dt.FDT, error) {
	return dt.ReadFile(path)
}

func u32(n *dt.Node, name string, def uint32) (uint32, error) {
	p, ok := n.LookProperty(name)

	if !ok {
		return def, nil
	}

	v, err := p.AsU32()

	if err != nil {
		return 0, fmt.Errorf("invalid %s property, %v", name, err)
	}

	return v, nil
}

// dt.Property.AsStringList does not terminate on multi-string values.
func stringList(n *dt.Node, name string) (s []string) {
	p, ok := n.LookProperty(name)

	if !ok {
		return
	}

	for _, v := range strings.Split(string(p.Value), "\x00") {
		if len(v) > 0 {
			s = append(s, v)
		}
	}

	return
}

func cells(b []byte, n uint32) (v uint64) {
	for i := uint32(0); i < n; i++ {
		v = v<<32 | uint64(binary.BigEndian.Uint32(b[i*4:]))
	}

	return
}

func enabled(n *dt.Node) bool {
	status := stringList(n, "status")

	if len(status) == 0 {
		return true
	}

	return status[0] == "okay" || status[0] == "ok"
}

func compatible(n *dt.Node) bool {
	for _, c := range stringList(n, "compatible") {
		for _, m := range Compatible {
			if c == m {
				return true
			}
		}
	}

	return false
}

// ParseUART8250 parses the first reg entry and the serial properties of a
// node, addressCells and sizeCells are the #address-cells and #size-cells
// of its parent.
func ParseUART8250(n *dt.Node, addressCells uint32, sizeCells uint32) (d *UARTData, err error) {
	if addressCells == 0 || addressCells > 2 || sizeCells > 2 {
		return nil, fmt.Errorf("unsupported cell sizes %d/%d", addressCells, sizeCells)
	}

	p, ok := n.LookProperty("reg")

	if !ok {
		return nil, fmt.Errorf("%s: missing reg property", n.Name)
	}

	if len(p.Value) < int(addressCells+sizeCells)*4 {
		return nil, fmt.Errorf("%s: invalid reg property length %d", n.Name, len(p.Value))
	}

	d = &UARTData{
		Addr: cells(p.Value, addressCells),
		Size: cells(p.Value[addressCells*4:], sizeCells),
	}

	if d.Addr == 0 || d.Size == 0 {
		return nil, fmt.Errorf("%s: invalid register region", n.Name)
	}

	for _, prop := range []struct {
		name string
		dst  *uint32
		def  uint32
	}{
		{"clock-frequency", &d.Freq, DefaultFreq},
		{"current-speed", &d.Baud, DefaultBaud},
		{"reg-shift", &d.RegShift, DefaultRegShift},
		{"reg-io-width", &d.RegIOWidth, DefaultRegIOWidth},
		{"reg-offset", &d.RegOffset, DefaultRegOffset},
	} {
		if *prop.dst, err = u32(n, prop.name, prop.def); err != nil {
			return nil, fmt.Errorf("%s: %v", n.Name, err)
		}
	}

	return
}

// Find returns the serial port configuration of the first enabled node
// matching Compatible.
func Find(root *dt.Node) (d *UARTData, err error) {
	var walk func(n *dt.Node, addressCells uint32, sizeCells uint32) error

	found := errors.New("found")

	walk = func(n *dt.Node, addressCells uint32, sizeCells uint32) error {
		if compatible(n) && enabled(n) {
			if d, err = ParseUART8250(n, addressCells, sizeCells); err != nil {
				return err
			}

			return found
		}

		ac, err := u32(n, "#address-cells", defaultAddressCells)

		if err != nil {
			return err
		}

		sc, err := u32(n, "#size-cells", defaultSizeCells)

		if err != nil {
			return err
		}

		for _, c := range n.Children {
			if err := walk(c, ac, sc); err != nil {
				return err
			}
		}

		return nil
	}

	if root == nil {
		return nil, ErrNotFound
	}

	switch err = walk(root, defaultAddressCells, defaultSizeCells); err {
	case found:
		return d, nil
	case nil:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

// Configure sets up and initializes hw from the first enabled compatible
// node found under root. The register bus, console and logger of hw are
// left untouched.
func Configure(root *dt.Node, hw *uart.UART) (err error) {
	d, err := Find(root)

	if err != nil {
		return
	}

	hw.Base = uint(d.Addr)
	hw.Freq = d.Freq
	hw.Baud = d.Baud
	hw.RegShift = d.RegShift
	hw.RegWidth = d.RegIOWidth
	hw.RegOffset = d.RegOffset

	return hw.Init()
}
