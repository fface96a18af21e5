// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package sampler

import (
	"github.com/schmidtw/templog/aht10"
	"github.com/schmidtw/templog/units"
	"github.com/stretchr/testify/mock"
)

type mockSensor struct {
	mock.Mock
}

func (m *mockSensor) Measure() (aht10.Sample, error) {
	a := m.Called()
	s, _ := a.Get(0).(aht10.Sample)
	return s, a.Error(1)
}

type mockThermometer struct {
	mock.Mock
}

func (m *mockThermometer) Read() (units.Celsius, error) {
	a := m.Called()
	return a.Get(0).(units.Celsius), a.Error(1)
}

func (m *mockThermometer) Close() error {
	a := m.Called()
	return a.Error(0)
}
