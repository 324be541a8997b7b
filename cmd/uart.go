// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/usbarmory/w3k-uart/console"
	"github.com/usbarmory/w3k-uart/shell"
	"github.com/usbarmory/w3k-uart/uart"
)

// UART represents the serial port instance served by the commands
var UART *uart.UART

// Console represents the console UART is registered with, all register
// accesses are serialized with its I/O.
var Console = console.Default

const maxRx = 256

var errNoUART = errors.New("serial port not initialized")

func init() {
	shell.Add(shell.Cmd{
		Name: "info",
		Help: "serial port configuration",
		Fn:   infoCmd,
	})

	shell.Add(shell.Cmd{
		Name: "lsr",
		Help: "line status",
		Fn:   lsrCmd,
	})

	shell.Add(shell.Cmd{
		Name: "regs",
		Help: "register dump (side effect free registers only)",
		Fn:   regsCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "tx",
		Args:    1,
		Pattern: regexp.MustCompile(`^tx (.*)`),
		Syntax:  "<text>",
		Help:    "transmit text",
		Fn:      txCmd,
	})

	shell.Add(shell.Cmd{
		Name: "rx",
		Help: "receive pending data",
		Fn:   rxCmd,
	})
}

func infoCmd(_ *shell.Interface, _ []string) (string, error) {
	var res bytes.Buffer

	if UART == nil {
		return "", errNoUART
	}

	w := UART.Window()
	dev := "none"

	if d := Console.Device(); d != nil {
		dev = d.Name()
	}

	fmt.Fprintf(&res, "Device .......: %s (%s)\n", UART.Name(), uart.Compatible)
	fmt.Fprintf(&res, "Registers ....: %#08x (shift %d, %d-bit access)\n", w.Base, w.Shift, w.Size()*8)
	fmt.Fprintf(&res, "Clock ........: %d Hz\n", UART.Freq)
	fmt.Fprintf(&res, "Baud rate ....: %d\n", UART.Baud)
	fmt.Fprintf(&res, "Divisor ......: %d\n", UART.Divisor())
	fmt.Fprintf(&res, "Console ......: %s", dev)

	return res.String(), nil
}

func lsrCmd(_ *shell.Interface, _ []string) (string, error) {
	if UART == nil {
		return "", errNoUART
	}

	var s *uart.LineStatus

	Console.Do(func(_ console.Device) {
		s = UART.LineStatus()
	})

	return fmt.Sprintf("LSR %#02x: %s", s.Value, s), nil
}

func regsCmd(_ *shell.Interface, _ []string) (string, error) {
	var res bytes.Buffer

	if UART == nil {
		return "", errNoUART
	}

	var r *uart.Registers

	Console.Do(func(_ console.Device) {
		r = UART.Registers()
	})

	fmt.Fprintf(&res, "IER %#02x\n", r.IER)
	fmt.Fprintf(&res, "LCR %#02x\n", r.LCR)
	fmt.Fprintf(&res, "MCR %#02x\n", r.MCR)
	fmt.Fprintf(&res, "SCR %#02x", r.SCR)

	return res.String(), nil
}

func txCmd(_ *shell.Interface, arg []string) (string, error) {
	if UART == nil {
		return "", errNoUART
	}

	var err error
	var n int

	Console.Do(func(_ console.Device) {
		for n = 0; n < len(arg[0]); n++ {
			if err = UART.TxContext(context.Background(), arg[0][n]); err != nil {
				return
			}
		}
	})

	if err != nil {
		return "", fmt.Errorf("transmission aborted after %d bytes, %v", n, err)
	}

	return fmt.Sprintf("%d bytes sent", n), nil
}

func rxCmd(_ *shell.Interface, _ []string) (string, error) {
	if UART == nil {
		return "", errNoUART
	}

	var n int

	buf := make([]byte, maxRx)

	Console.Do(func(_ console.Device) {
		n, _ = UART.Read(buf)
	})

	if n == 0 {
		return "no data", nil
	}

	return fmt.Sprintf("%d bytes: %s", n, strconv.Quote(string(buf[:n]))), nil
}
