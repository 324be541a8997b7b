// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package console

import (
	_ "unsafe"
)

// On bare metal the runtime standard output is routed to the default
// console, board packages defining their own printk must not be linked in.
//
//go:linkname printk runtime.printk
func printk(c byte) {
	Default.Putc(c)
}
