// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"text/tabwriter"
)

// CmdFn represents a command handler.
type CmdFn func(iface *Interface, arg []string) (res string, err error)

// Cmd represents a shell command.
type Cmd struct {
	// Name is the command name, matched literally when Pattern is nil
	Name string
	// Args is the number of Pattern submatches passed to Fn
	Args int
	// Pattern matches the command line
	Pattern *regexp.Regexp
	// Syntax is the argument description shown in help
	Syntax string
	// Help is the command description shown in help
	Help string
	// Fn is the command handler
	Fn CmdFn
}

var (
	mux  sync.Mutex
	cmds = make(map[string]*Cmd)
)

// Add registers a terminal command, commands with the same name are
// replaced.
func Add(cmd Cmd) {
	mux.Lock()
	defer mux.Unlock()

	cmds[cmd.Name] = &cmd
}

func sorted() (list []*Cmd) {
	mux.Lock()
	defer mux.Unlock()

	for _, cmd := range cmds {
		list = append(list, cmd)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return
}

// Help returns a formatted string with instructions for all registered
// commands.
func (iface *Interface) Help(_ *Interface, _ []string) (string, error) {
	var help bytes.Buffer

	t := tabwriter.NewWriter(&help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for _, cmd := range sorted() {
		fmt.Fprintf(t, "%s\t%s\t # %s\n", cmd.Name, cmd.Syntax, cmd.Help)
	}

	t.Flush()

	return help.String(), nil
}
