// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package uart implements a polled driver for the SiliconWaves W3K serial
// port, a 16550 compatible UART, adopting the following reference
// specifications:
//   - TL16C550C - Asynchronous Communications Element - SLLS177I
//
// The driver does not implement locking, concurrent callers must be
// serialized by higher layers (see package console).
//
// This package is only meant to be used with `GOOS=tamago` as supported
// by the TamaGo framework for bare metal Go, or from Linux user space
// through a /dev/mem register bus.
package uart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/usbarmory/tamago/bits"

	"github.com/usbarmory/w3k-uart/console"
	"github.com/usbarmory/w3k-uart/reg"
)

// Name is the console device identifier.
const Name = "w3k_uart"

// Compatible is the device tree compatible string for this device.
const Compatible = "siliconwaves,w3k-uart"

// UART registers (register index, scaled by RegShift)
const (
	RBR = 0 // receive buffer (read)
	THR = 0 // transmit holding (write)
	DLL = 0 // divisor latch low (DLAB=1)
	IER = 1 // interrupt enable
	DLM = 1 // divisor latch high (DLAB=1)
	FCR = 2 // FIFO control (write)
	IIR = 2 // interrupt identification (read)
	LCR = 3 // line control
	MCR = 4 // modem control
	LSR = 5 // line status
	MSR = 6 // modem status
	SCR = 7 // scratch
)

// LCR values
const (
	LCR_DLAB = 0x80
	LCR_8N1  = 0x03
)

// FCR values
const (
	FCR_FIFOE = 0x01
)

// LSR bits
const (
	LSR_DR    = 0
	LSR_OE    = 1
	LSR_PE    = 2
	LSR_FE    = 3
	LSR_BI    = 4
	LSR_THRE  = 5
	LSR_TEMT  = 6
	LSR_FIFOE = 7
)

// Registrar represents the console abstraction the UART registers with.
type Registrar interface {
	SetDevice(dev console.Device)
}

// UART represents a serial port instance.
type UART struct {
	// Base is the register block physical address
	Base uint
	// Freq is the input clock frequency (Hz)
	Freq uint32
	// Baud is the line speed (bits/s)
	Baud uint32
	// RegShift scales register indexes into byte offsets
	RegShift uint32
	// RegWidth is the register access size in bytes (1, 2 or 4)
	RegWidth uint32
	// RegOffset is added to Base before any access
	RegOffset uint32

	// Bus is the address space used for register accesses
	Bus reg.Bus

	// Console receives the UART console device at initialization,
	// console.Default is used when nil.
	Console Registrar

	// Timeout bounds TxContext polling, zero means no timeout.
	Timeout time.Duration

	// Log receives initialization diagnostics, log.Default() is used
	// when nil.
	Log *log.Logger

	regs reg.Window
	div  uint16
}

func (hw *UART) logf(format string, v ...any) {
	l := hw.Log

	if l == nil {
		l = log.Default()
	}

	l.Printf(format, v...)
}

// Init initializes and enables the UART for polled 8N1 operation, the UART
// is then registered as console device.
func (hw *UART) Init() (err error) {
	if hw.Bus == nil {
		return errors.New("invalid register bus")
	}

	if hw.Baud == 0 {
		return errors.New("invalid baud rate")
	}

	hw.regs = reg.Window{
		Bus:   hw.Bus,
		Base:  hw.Base + uint(hw.RegOffset),
		Shift: hw.RegShift,
		Width: hw.RegWidth,
	}

	switch hw.RegWidth {
	case 1, 2, 4:
	default:
		hw.logf("uart: unsupported register width %d, using 32-bit accesses", hw.RegWidth)
	}

	hw.div = uint16(hw.Freq / hw.Baud)

	// disable all interrupts
	hw.regs.Write(IER, 0x00)
	// enable divisor latch access
	hw.regs.Write(LCR, LCR_DLAB)

	if hw.div != 0 {
		hw.regs.Write(DLL, uint32(hw.div&0xff))
		hw.regs.Write(DLM, uint32(hw.div>>8))
	} else {
		hw.logf("uart: zero divisor (%d Hz, %d baud), divisor left unchanged", hw.Freq, hw.Baud)
	}

	// 8 data bits, no parity, 1 stop bit (clears DLAB)
	hw.regs.Write(LCR, LCR_8N1)
	hw.regs.Write(FCR, FCR_FIFOE)
	// no modem control (DTR, RTS)
	hw.regs.Write(MCR, 0x00)

	// clear line status and receive buffer
	hw.regs.Read(LSR)
	hw.regs.Read(RBR)

	hw.regs.Write(SCR, 0x00)

	con := hw.Console

	if con == nil {
		con = console.Default
	}

	con.SetDevice(hw)

	return
}

// Name returns the console device identifier.
func (hw *UART) Name() string {
	return Name
}

// Divisor returns the baud rate divisor computed at initialization, zero
// when it was not programmed.
func (hw *UART) Divisor() uint16 {
	return hw.div
}

func (hw *UART) lsr() uint32 {
	return hw.regs.Read(LSR)
}

func (hw *UART) txReady() bool {
	lsr := hw.lsr()
	return bits.IsSet(&lsr, LSR_THRE)
}

// Tx transmits a single character, it busy waits without bound for the
// transmit holding register to be empty.
func (hw *UART) Tx(c byte) {
	for !hw.txReady() {
	}

	hw.regs.Write(THR, uint32(c))
}

// TxContext transmits a single character, unlike Tx it gives up when the
// context is done or the Timeout elapses.
func (hw *UART) TxContext(ctx context.Context, c byte) error {
	if hw.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hw.Timeout)
		defer cancel()
	}

	for !hw.txReady() {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && hw.Timeout > 0 {
				return fmt.Errorf("transmitter not ready after %v", hw.Timeout)
			}

			return err
		}
	}

	hw.regs.Write(THR, uint32(c))

	return nil
}

// Rx returns a single received character, valid is false when no data is
// available. It never blocks.
func (hw *UART) Rx() (c byte, valid bool) {
	lsr := hw.lsr()

	if !bits.IsSet(&lsr, LSR_DR) {
		return
	}

	return byte(hw.regs.Read(RBR)), true
}

// Putc implements console.Device.
func (hw *UART) Putc(c byte) {
	hw.Tx(c)
}

// Getc implements console.Device.
func (hw *UART) Getc() int {
	c, valid := hw.Rx()

	if !valid {
		return -1
	}

	return int(c)
}

// Write data from buffer to serial port.
func (hw *UART) Write(buf []byte) (n int, _ error) {
	for n = 0; n < len(buf); n++ {
		hw.Tx(buf[n])
	}

	return
}

// Read available data to buffer from serial port.
func (hw *UART) Read(buf []byte) (n int, _ error) {
	var valid bool

	for n = 0; n < len(buf); n++ {
		buf[n], valid = hw.Rx()

		if !valid {
			break
		}
	}

	return
}
