// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package console implements a byte oriented console dispatching I/O to
// the last registered device.
//
// Console devices are not required to be safe for concurrent use, the
// Console serializes all device accesses.
package console

import (
	"io"
	"sync"
	"time"
)

// DefaultIdle is the polling interval of blocking reads.
const DefaultIdle = 10 * time.Millisecond

// Device represents a polled console device.
type Device interface {
	// Name returns the device identifier.
	Name() string
	// Putc transmits a single byte, blocking until the device accepts it.
	Putc(c byte)
	// Getc returns a received byte, or -1 when none is available.
	Getc() int
}

// Console represents a console instance.
type Console struct {
	sync.Mutex

	// Idle is the interval between device polls in Read, DefaultIdle is
	// used when zero.
	Idle time.Duration

	dev Device
}

// Default is the console instance used by the runtime output hook, when
// available.
var Default = &Console{}

// SetDevice registers the console device, replacing any previous one.
func (c *Console) SetDevice(dev Device) {
	c.Lock()
	defer c.Unlock()

	c.dev = dev
}

// Device returns the registered console device, if any.
func (c *Console) Device() Device {
	c.Lock()
	defer c.Unlock()

	return c.dev
}

func (c *Console) putc(ch byte) {
	if c.dev == nil {
		return
	}

	if ch == '\n' {
		c.dev.Putc('\r')
	}

	c.dev.Putc(ch)
}

// Putc transmits a single byte, line feeds are preceded by a carriage
// return. Output is discarded when no device is registered.
func (c *Console) Putc(ch byte) {
	c.Lock()
	defer c.Unlock()

	c.putc(ch)
}

// Puts transmits a string without interleaving with other console output.
func (c *Console) Puts(s string) {
	c.Lock()
	defer c.Unlock()

	for i := 0; i < len(s); i++ {
		c.putc(s[i])
	}
}

// Do runs fn with exclusive access to the registered device, dev is nil
// when no device is registered. Callers accessing the device outside the
// Console (e.g. diagnostics) must use Do to avoid interleaving with
// console I/O.
func (c *Console) Do(fn func(dev Device)) {
	c.Lock()
	defer c.Unlock()

	fn(c.dev)
}

// Getc returns a received byte, or -1 when none is available or no device
// is registered.
func (c *Console) Getc() int {
	c.Lock()
	defer c.Unlock()

	if c.dev == nil {
		return -1
	}

	return c.dev.Getc()
}

// Write implements the [io.Writer] interface.
func (c *Console) Write(p []byte) (n int, err error) {
	c.Puts(string(p))
	return len(p), nil
}

// Raw returns an [io.ReadWriter] over the console which does not precede
// line feeds with a carriage return, for writers (e.g. terminals) already
// emitting CRLF sequences.
func (c *Console) Raw() io.ReadWriter {
	return &raw{c}
}

type raw struct {
	*Console
}

func (r *raw) Write(p []byte) (n int, err error) {
	r.Lock()
	defer r.Unlock()

	if r.dev == nil {
		return len(p), nil
	}

	for _, ch := range p {
		r.dev.Putc(ch)
	}

	return len(p), nil
}

// Read implements the [io.Reader] interface, it blocks until at least one
// byte is available and returns all bytes received without further
// waiting.
func (c *Console) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return
	}

	idle := c.Idle

	if idle == 0 {
		idle = DefaultIdle
	}

	for {
		if c.Device() == nil {
			return 0, io.EOF
		}

		for n < len(p) {
			ch := c.Getc()

			if ch < 0 {
				break
			}

			p[n] = byte(ch)
			n++
		}

		if n > 0 {
			return
		}

		time.Sleep(idle)
	}
}
