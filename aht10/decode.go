// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package aht10

import (
	"errors"
	"fmt"

	"github.com/schmidtw/templog/units"
)

// SampleSize is the number of bytes in one measurement.
const SampleSize = 6

// fullScale is 2^20, the range of both 20 bit readings.
const fullScale = 1048576

var (
	ErrInvalidSample = errors.New("invalid sample")
)

// Sample is the raw measurement read from the sensor.  Byte 0 is the status
// byte, bytes 1..3 hold humidity and bytes 3..5 hold temperature.
type Sample []byte

// Validate returns an error unless the sample is exactly SampleSize bytes.
func (s Sample) Validate() error {
	if len(s) != SampleSize {
		return fmt.Errorf("%w: %d bytes, expected %d", ErrInvalidSample, len(s), SampleSize)
	}
	return nil
}

// RawTemperature returns the 20 bit temperature reading.
func (s Sample) RawTemperature() uint32 {
	return (uint32(s[3])&0x0F)<<16 | uint32(s[4])<<8 | uint32(s[5])
}

// RawHumidity returns the 20 bit humidity reading.
func (s Sample) RawHumidity() uint32 {
	return (uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])) >> 4
}

// DecodeTemperature converts the sample into degrees Celsius.
func DecodeTemperature(s Sample) (units.Celsius, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	return units.Celsius(float64(s.RawTemperature())*200/fullScale - 50), nil
}

// DecodeHumidity converts the sample into a whole percentage of relative
// humidity.  The division truncates.
func DecodeHumidity(s Sample) (units.RelativeHumidity, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	return units.RelativeHumidity(uint64(s.RawHumidity()) * 100 / fullScale), nil
}
