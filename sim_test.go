// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"testing"

	"github.com/usbarmory/w3k-uart/console"
	"github.com/usbarmory/w3k-uart/uart"
)

func TestLoopback(t *testing.T) {
	con := &console.Console{}

	hw := &uart.UART{
		Base:     0x10000000,
		Freq:     24000000,
		Baud:     115200,
		RegShift: 2,
		RegWidth: 4,
		Console:  con,
		Log:      log.New(io.Discard, "", 0),
	}

	hw.Bus = loopback(hw)

	if err := hw.Init(); err != nil {
		t.Fatal(err)
	}

	// the divisor latch must not leak into the receive path
	if c := con.Getc(); c != -1 {
		t.Fatalf("unexpected byte %d", c)
	}

	con.Puts("ok\n")

	buf := make([]byte, 8)
	n, err := con.Read(buf)

	if err != nil || string(buf[:n]) != "ok\r\n" {
		t.Fatalf("unexpected read %q, %v", buf[:n], err)
	}
}
