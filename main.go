// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// The w3k-uart command brings up a SiliconWaves W3K serial port, registers
// it as console and serves a diagnostic shell.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/usbarmory/w3k-uart/cmd"
	"github.com/usbarmory/w3k-uart/console"
	"github.com/usbarmory/w3k-uart/fdt"
	"github.com/usbarmory/w3k-uart/shell"
	"github.com/usbarmory/w3k-uart/uart"
)

var (
	dtb     = flag.String("dtb", "", "device tree blob (e.g. /sys/firmware/fdt), overrides register flags")
	base    = flag.Uint64("base", 0x10000000, "register block physical address")
	freq    = flag.Uint("freq", 24000000, "input clock frequency (Hz)")
	baud    = flag.Uint("baud", fdt.DefaultBaud, "baud rate")
	shift   = flag.Uint("shift", fdt.DefaultRegShift, "register shift")
	width   = flag.Uint("width", fdt.DefaultRegIOWidth, "register access width (bytes)")
	offset  = flag.Uint("offset", fdt.DefaultRegOffset, "register offset")
	timeout = flag.Duration("timeout", 0, "transmit timeout for shell commands (0 waits forever)")
	sim     = flag.Bool("sim", false, "use a simulated loopback device instead of /dev/mem")
	serve   = flag.Bool("serve", false, "serve the shell on the serial console instead of stdin/stdout")
	sshAddr = flag.String("ssh", "", "serve the shell over SSH on this address")
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • %s",
		runtime.GOOS, runtime.GOARCH, runtime.Version(), uart.Compatible)
}

func configure(hw *uart.UART) error {
	if len(*dtb) == 0 {
		hw.Base = uint(*base)
		hw.Freq = uint32(*freq)
		hw.Baud = uint32(*baud)
		hw.RegShift = uint32(*shift)
		hw.RegWidth = uint32(*width)
		hw.RegOffset = uint32(*offset)

		return hw.Init()
	}

	f, err := fdt.Load(*dtb)

	if err != nil {
		return fmt.Errorf("could not load device tree, %v", err)
	}

	return fdt.Configure(f.RootNode, hw)
}

func main() {
	var err error

	flag.Parse()

	hw := &uart.UART{
		Console: console.Default,
		Timeout: *timeout,
	}

	if *sim {
		hw.Bus = loopback(hw)
	} else if hw.Bus, err = devMem(); err != nil {
		log.Fatalf("could not open register bus, %v", err)
	}
	defer closeBus(hw.Bus)

	if err = configure(hw); err != nil {
		log.Fatalf("could not initialize %s, %v", uart.Name, err)
	}

	if err = busError(hw.Bus); err != nil {
		log.Fatalf("register access error, %v", err)
	}

	log.Printf("%s initialized at %#x (divisor %d)", hw.Name(), hw.Window().Base, hw.Divisor())

	cmd.UART = hw

	if len(*sshAddr) > 0 {
		go startSSH(*sshAddr)
	}

	if *serve {
		iface := &shell.Interface{
			Banner:     cmd.Banner,
			ReadWriter: console.Default.Raw(),
		}

		iface.Start()
		return
	}

	startLocal()
}

func startLocal() {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)

		if err != nil {
			log.Fatalf("could not set terminal mode, %v", err)
		}
		defer term.Restore(fd, state)
	}

	iface := &shell.Interface{
		Banner: cmd.Banner,
		ReadWriter: struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout},
		VT100: true,
	}

	iface.Start()
}
