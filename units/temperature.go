// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Celsius is a temperature stored as a float64 in degrees Celsius.
type Celsius float64

// FromMilliCelsius converts an integer count of millidegrees, the unit the
// kernel thermal zones report in, into Celsius.
func FromMilliCelsius(m int64) Celsius {
	return Celsius(float64(m) / 1000.0)
}

// String returns the temperature rounded to a tenth of a degree.
func (c Celsius) String() string {
	return fmt.Sprintf("%.1f°C", float64(c))
}

// Precise returns the temperature with every digit it carries, keeping at
// least one decimal place.
func (c Celsius) Precise() string {
	v := strconv.FormatFloat(float64(c), 'f', -1, 64)
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v + "°C"
}
