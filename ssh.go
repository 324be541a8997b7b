// Copyright (c) The w3k-uart authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"log"

	"github.com/gliderlabs/ssh"

	"github.com/usbarmory/w3k-uart/cmd"
	"github.com/usbarmory/w3k-uart/shell"
)

func handleSession(s ssh.Session) {
	_, _, isPty := s.Pty()

	iface := &shell.Interface{
		Banner:     cmd.Banner,
		ReadWriter: s,
		VT100:      isPty,
	}

	log.Printf("ssh session from %s", s.RemoteAddr())
	iface.Start()
}

func startSSH(addr string) {
	srv := &ssh.Server{
		Addr:    addr,
		Handler: handleSession,
	}

	log.Printf("starting ssh server on %s", addr)

	if err := srv.ListenAndServe(); err != nil {
		log.Printf("ssh server error, %v", err)
	}
}
