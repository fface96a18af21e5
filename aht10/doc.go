// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package aht10 drives an AHT10 temperature and humidity sensor over I²C and
// decodes the 6 byte samples it returns.
//
// The decode formulas come from the vendor datasheet and are kept exactly as
// published: humidity is the 20 bits in bytes 1..3 shifted right by a nibble,
// temperature is the low nibble of byte 3 followed by bytes 4 and 5.
package aht10
