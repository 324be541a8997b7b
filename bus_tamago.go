// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package main

import (
	"github.com/usbarmory/w3k-uart/reg"
)

// On bare metal the register block is identity mapped.
func devMem() (reg.Bus, error) {
	return reg.MMIO{}, nil
}

func busError(_ reg.Bus) error {
	return nil
}

func closeBus(_ reg.Bus) {}
