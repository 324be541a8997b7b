// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !linux && !tamago

package main

import (
	"errors"
	"runtime"

	"github.com/usbarmory/w3k-uart/reg"
)

func devMem() (reg.Bus, error) {
	return nil, errors.New("/dev/mem access is not supported on " + runtime.GOOS)
}

func busError(_ reg.Bus) error {
	return nil
}

func closeBus(_ reg.Bus) {}
