// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package console

import (
	"bytes"
	"io"
	"testing"
	"time"
)

type testDevice struct {
	name string
	tx   bytes.Buffer
	rx   []byte
}

func (d *testDevice) Name() string { return d.name }

func (d *testDevice) Putc(c byte) { d.tx.WriteByte(c) }

func (d *testDevice) Getc() int {
	if len(d.rx) == 0 {
		return -1
	}

	c := d.rx[0]
	d.rx = d.rx[1:]

	return int(c)
}

func TestNoDevice(t *testing.T) {
	c := &Console{}

	c.Putc('a')
	c.Puts("discarded\n")

	if ch := c.Getc(); ch != -1 {
		t.Fatalf("unexpected byte %d", ch)
	}

	if _, err := c.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLastDeviceWins(t *testing.T) {
	c := &Console{}
	first := &testDevice{name: "first"}
	second := &testDevice{name: "second"}

	c.SetDevice(first)
	c.SetDevice(second)

	if c.Device().Name() != "second" {
		t.Fatalf("unexpected device %s", c.Device().Name())
	}

	c.Putc('x')

	if first.tx.Len() != 0 || second.tx.String() != "x" {
		t.Fatal("output dispatched to the wrong device")
	}
}

func TestLineFeed(t *testing.T) {
	c := &Console{}
	dev := &testDevice{}
	c.SetDevice(dev)

	if _, err := c.Write([]byte("a\nb")); err != nil {
		t.Fatal(err)
	}

	if got := dev.tx.String(); got != "a\r\nb" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRead(t *testing.T) {
	c := &Console{Idle: time.Millisecond}
	dev := &testDevice{rx: []byte("hello")}
	c.SetDevice(dev)

	buf := make([]byte, 3)

	n, err := c.Read(buf)

	if err != nil || string(buf[:n]) != "hel" {
		t.Fatalf("unexpected read %q, %v", buf[:n], err)
	}

	n, err = c.Read(buf)

	if err != nil || string(buf[:n]) != "lo" {
		t.Fatalf("unexpected read %q, %v", buf[:n], err)
	}

	if ch := c.Getc(); ch != -1 {
		t.Fatalf("unexpected byte %d", ch)
	}
}

func TestRaw(t *testing.T) {
	c := &Console{}
	dev := &testDevice{}

	if n, err := c.Raw().Write([]byte("dropped")); n != 7 || err != nil {
		t.Fatalf("unexpected write %d, %v", n, err)
	}

	c.SetDevice(dev)

	if _, err := c.Raw().Write([]byte("a\r\nb\n")); err != nil {
		t.Fatal(err)
	}

	if got := dev.tx.String(); got != "a\r\nb\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestDo(t *testing.T) {
	c := &Console{}

	c.Do(func(dev Device) {
		if dev != nil {
			t.Fatal("unexpected device")
		}
	})

	d := &testDevice{name: "test"}
	c.SetDevice(d)

	done := make(chan struct{})

	c.Lock()

	go func() {
		c.Do(func(dev Device) {
			if dev != d {
				t.Error("unexpected device")
			}
		})
		close(done)
	}()

	select {
	case <-done:
		c.Unlock()
		t.Fatal("Do not serialized with console lock")
	case <-time.After(50 * time.Millisecond):
	}

	c.Unlock()
	<-done
}
