// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package shutdown provides a one way flag used to ask a long running loop
// to stop from outside of it.
package shutdown

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Flag is set at most once and never cleared.  It is safe for concurrent use.
type Flag struct {
	once sync.Once
	done chan struct{}
}

// New makes a new, unset flag.
func New() *Flag {
	return &Flag{
		done: make(chan struct{}),
	}
}

// Set sets the flag.  Only the first call returns true.
func (f *Flag) Set() (first bool) {
	f.once.Do(func() {
		close(f.done)
		first = true
	})
	return first
}

// IsSet reports if the flag has been set.
func (f *Flag) IsSet() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the flag is set.
func (f *Flag) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flag is set or d has passed on clk.  It returns true
// if the flag is set.
func (f *Flag) Wait(clk clock.Clock, d time.Duration) bool {
	if f.IsSet() {
		return true
	}

	t := clk.Timer(d)
	defer t.Stop()

	select {
	case <-f.done:
		return true
	case <-t.C:
		return f.IsSet()
	}
}
