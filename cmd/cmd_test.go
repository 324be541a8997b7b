// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/usbarmory/w3k-uart/console"
	"github.com/usbarmory/w3k-uart/reg"
	"github.com/usbarmory/w3k-uart/shell"
	"github.com/usbarmory/w3k-uart/uart"
)

const testBase = 0x10000000

func setup(t *testing.T) (*reg.Sim, *bytes.Buffer) {
	t.Helper()

	sim := &reg.Sim{}
	tx := &bytes.Buffer{}
	Console = &console.Console{}

	UART = &uart.UART{
		Base:     testBase,
		Freq:     24000000,
		Baud:     115200,
		RegWidth: 1,
		Bus:      sim,
		Console:  Console,
		Timeout:  10 * time.Millisecond,
		Log:      log.New(io.Discard, "", 0),
	}

	if err := UART.Init(); err != nil {
		t.Fatal(err)
	}

	sim.Set(testBase+uart.LSR, 1<<uart.LSR_THRE|1<<uart.LSR_TEMT)

	sim.OnWrite = func(addr uint, _ int, val uint32) {
		if addr == testBase+uart.THR {
			tx.WriteByte(byte(val))
		}
	}

	return sim, tx
}

func exec(t *testing.T, line string) string {
	t.Helper()

	var buf bytes.Buffer

	if err := (&shell.Interface{}).Exec(line, &buf); err != nil {
		t.Fatalf("%s: %v", line, err)
	}

	return buf.String()
}

func TestInfo(t *testing.T) {
	setup(t)

	res := exec(t, "info")

	for _, s := range []string{
		"w3k_uart",
		"0x10000000",
		"8-bit access",
		"Divisor ......: 208",
	} {
		if !strings.Contains(res, s) {
			t.Fatalf("missing %q in %q", s, res)
		}
	}
}

func TestLSR(t *testing.T) {
	setup(t)

	if res := exec(t, "lsr"); !strings.Contains(res, "LSR 0x60: THRE TEMT") {
		t.Fatalf("unexpected output %q", res)
	}
}

func TestRegs(t *testing.T) {
	setup(t)

	if res := exec(t, "regs"); !strings.Contains(res, "LCR 0x03") {
		t.Fatalf("unexpected output %q", res)
	}
}

func TestTxRx(t *testing.T) {
	sim, tx := setup(t)

	if res := exec(t, "tx hello"); !strings.Contains(res, "5 bytes sent") {
		t.Fatalf("unexpected output %q", res)
	}

	if tx.String() != "hello" {
		t.Fatalf("unexpected transmission %q", tx.String())
	}

	if res := exec(t, "rx"); !strings.Contains(res, "no data") {
		t.Fatalf("unexpected output %q", res)
	}

	rx := []byte("hi")

	sim.OnRead = func(addr uint, _ int) (uint32, bool) {
		switch addr {
		case testBase + uart.LSR:
			if len(rx) > 0 {
				return 1<<uart.LSR_THRE | 1<<uart.LSR_DR, true
			}
		case testBase + uart.RBR:
			c := rx[0]
			rx = rx[1:]
			return uint32(c), true
		}

		return 0, false
	}

	if res := exec(t, "rx"); !strings.Contains(res, `2 bytes: "hi"`) {
		t.Fatalf("unexpected output %q", res)
	}
}

func TestTxTimeout(t *testing.T) {
	sim, _ := setup(t)
	sim.Set(testBase+uart.LSR, 0)

	var buf bytes.Buffer

	err := (&shell.Interface{}).Exec("tx x", &buf)

	if err == nil || !strings.Contains(err.Error(), "transmission aborted after 0 bytes") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNoUART(t *testing.T) {
	UART = nil

	var buf bytes.Buffer

	if err := (&shell.Interface{}).Exec("info", &buf); err != errNoUART {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUptime(t *testing.T) {
	if res := exec(t, "uptime"); len(res) == 0 {
		t.Fatal("empty uptime")
	}
}

func TestSerialized(t *testing.T) {
	sim, _ := setup(t)
	sim.Set(testBase+uart.LSR, 1<<uart.LSR_THRE|1<<uart.LSR_DR)
	sim.Set(testBase+uart.RBR, 'x')

	for _, line := range []string{"rx", "lsr", "regs", "tx y"} {
		sim.Reset()
		done := make(chan string)

		Console.Lock()

		go func() {
			var buf bytes.Buffer
			(&shell.Interface{}).Exec(line, &buf)
			done <- buf.String()
		}()

		select {
		case res := <-done:
			Console.Unlock()
			t.Fatalf("%s: completed while console locked, %q", line, res)
		case <-time.After(50 * time.Millisecond):
		}

		if n := len(sim.Log()); n != 0 {
			Console.Unlock()
			t.Fatalf("%s: %d register accesses while console locked", line, n)
		}

		Console.Unlock()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("%s: not completed after console unlock", line)
		}
	}
}
