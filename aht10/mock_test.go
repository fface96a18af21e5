// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package aht10

import (
	"github.com/stretchr/testify/mock"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

type mockWrapper struct {
	mock.Mock
}

func (m *mockWrapper) Open(name string) (i2c.Bus, error) {
	a := m.Called(name)
	bus, _ := a.Get(0).(i2c.Bus)
	return bus, a.Error(1)
}

func (m *mockWrapper) Close() error {
	a := m.Called()
	return a.Error(0)
}

// Mocking i2c.Bus

type mockBus struct {
	mock.Mock
}

func (m *mockBus) String() string {
	a := m.Called()
	return a.String(0)
}

func (m *mockBus) Tx(addr uint16, w, r []byte) error {
	a := m.Called(addr, w, r)
	return a.Error(0)
}

func (m *mockBus) SetSpeed(f physic.Frequency) error {
	a := m.Called(f)
	return a.Error(0)
}
