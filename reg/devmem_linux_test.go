// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package reg

import (
	"path/filepath"
	"testing"
)

func TestOpenDevMemMissing(t *testing.T) {
	if _, err := OpenDevMem(filepath.Join(t.TempDir(), "mem")); err == nil {
		t.Fatal("expected error opening a missing device")
	}
}
