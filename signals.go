// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/schmidtw/templog/shutdown"
	"go.uber.org/zap"
)

// exitSignals all stop the daemon the same way.
var exitSignals = []os.Signal{
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGINT,
}

// handleSignals sets the flag for every signal received until done is
// closed.  It touches nothing but the flag and the logger.
func handleSignals(sigs <-chan os.Signal, flag *shutdown.Flag, log *zap.Logger, done <-chan struct{}) {
	for {
		select {
		case sig := <-sigs:
			log.Info(fmt.Sprintf("Received exit signal: %s", signalName(sig)))
			flag.Set()
		case <-done:
			return
		}
	}
}

func signalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		return fmt.Sprintf("%d (%s)", int(s), s)
	}
	return sig.String()
}
