// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"sync"

	"github.com/usbarmory/w3k-uart/reg"
	"github.com/usbarmory/w3k-uart/uart"
)

// loopback returns a simulated register bus where transmitted characters
// are received back, it is meant for exercising the console without
// hardware.
func loopback(hw *uart.UART) reg.Bus {
	var mu sync.Mutex
	var fifo []byte

	sim := &reg.Sim{}

	dlab := func() bool {
		w := hw.Window()
		return sim.Get(w.Addr(uart.LCR))&uart.LCR_DLAB != 0
	}

	sim.OnRead = func(addr uint, _ int) (uint32, bool) {
		w := hw.Window()

		mu.Lock()
		defer mu.Unlock()

		switch {
		case addr == w.Addr(uart.LSR):
			lsr := uint32(1<<uart.LSR_THRE | 1<<uart.LSR_TEMT)

			if len(fifo) > 0 {
				lsr |= 1 << uart.LSR_DR
			}

			return lsr, true
		case addr == w.Addr(uart.RBR) && !dlab():
			if len(fifo) == 0 {
				return 0, true
			}

			c := fifo[0]
			fifo = fifo[1:]

			return uint32(c), true
		}

		return 0, false
	}

	sim.OnWrite = func(addr uint, _ int, val uint32) {
		w := hw.Window()

		if addr != w.Addr(uart.THR) || dlab() {
			return
		}

		mu.Lock()
		defer mu.Unlock()

		fifo = append(fifo, byte(val))
	}

	return sim
}
