// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uart

import (
	"strings"

	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/w3k-uart/reg"
)

// LineStatus represents a decoded Line Status Register.
type LineStatus struct {
	DataReady bool
	Overrun   bool
	Parity    bool
	Framing   bool
	Break     bool
	THREmpty  bool
	TxEmpty   bool
	FIFOError bool
	Value     uint32
}

// DecodeLineStatus decodes a raw LSR value.
func DecodeLineStatus(lsr uint32) *LineStatus {
	return &LineStatus{
		DataReady: bits.IsSet(&lsr, LSR_DR),
		Overrun:   bits.IsSet(&lsr, LSR_OE),
		Parity:    bits.IsSet(&lsr, LSR_PE),
		Framing:   bits.IsSet(&lsr, LSR_FE),
		Break:     bits.IsSet(&lsr, LSR_BI),
		THREmpty:  bits.IsSet(&lsr, LSR_THRE),
		TxEmpty:   bits.IsSet(&lsr, LSR_TEMT),
		FIFOError: bits.IsSet(&lsr, LSR_FIFOE),
		Value:     bits.Get(&lsr, 0, 0xff),
	}
}

func (s *LineStatus) String() string {
	var flags []string

	for _, f := range []struct {
		set  bool
		name string
	}{
		{s.DataReady, "DR"},
		{s.Overrun, "OE"},
		{s.Parity, "PE"},
		{s.Framing, "FE"},
		{s.Break, "BI"},
		{s.THREmpty, "THRE"},
		{s.TxEmpty, "TEMT"},
		{s.FIFOError, "FIFOE"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}

	if len(flags) == 0 {
		return "-"
	}

	return strings.Join(flags, " ")
}

// LineStatus reads and decodes the Line Status Register, note that on
// 16550 devices reading LSR clears pending error flags.
func (hw *UART) LineStatus() *LineStatus {
	return DecodeLineStatus(hw.lsr())
}

// Registers represents a snapshot of side effect free UART registers.
type Registers struct {
	IER uint32
	LCR uint32
	MCR uint32
	SCR uint32
}

// Registers returns a snapshot of the UART registers which can be read
// without consuming data or status (RBR, IIR, LSR and MSR are excluded).
func (hw *UART) Registers() *Registers {
	return &Registers{
		IER: hw.regs.Read(IER),
		LCR: hw.regs.Read(LCR),
		MCR: hw.regs.Read(MCR),
		SCR: hw.regs.Read(SCR),
	}
}

// Window returns the register window configured at initialization.
func (hw *UART) Window() reg.Window {
	return hw.regs
}
