// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"github.com/usbarmory/w3k-uart/reg"
)

func devMem() (reg.Bus, error) {
	return reg.OpenDevMem(reg.DevMemPath)
}

func busError(bus reg.Bus) error {
	if d, ok := bus.(*reg.DevMem); ok {
		return d.Err()
	}

	return nil
}

func closeBus(bus reg.Bus) {
	if d, ok := bus.(*reg.DevMem); ok {
		d.Close()
	}
}
