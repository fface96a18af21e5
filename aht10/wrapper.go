// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package aht10

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

type busWrapper interface {
	Open(string) (i2c.Bus, error)
	Close() error
}

type hwWrapper struct {
	m   sync.Mutex
	bus i2c.BusCloser
}

func (h *hwWrapper) Open(name string) (i2c.Bus, error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus != nil {
		return nil, errAlreadyOpen
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}

	h.bus = bus
	return bus, nil
}

func (h *hwWrapper) Close() error {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus == nil {
		return nil
	}

	err := h.bus.Close()
	h.bus = nil
	return err
}
