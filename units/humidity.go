// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import "strconv"

// RelativeHumidity is a whole percentage of relative humidity.
type RelativeHumidity int

// String returns the humidity formatted as a percentage.
func (h RelativeHumidity) String() string {
	return strconv.Itoa(int(h)) + "%"
}
