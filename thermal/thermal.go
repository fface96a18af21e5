// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package thermal reads a kernel thermal zone.
//
// The zone file is opened once and re-read from the start on every call, so a
// long running poller holds a single descriptor for its whole life.
package thermal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/schmidtw/templog/units"
)

// DefaultZone is the first thermal zone, the SoC on a Raspberry Pi.
const DefaultZone = "/sys/class/thermal/thermal_zone0/temp"

var (
	ErrClosed       = errors.New("zone closed")
	ErrInvalidValue = errors.New("invalid value")
)

// Zone is an open thermal zone.
type Zone struct {
	m    sync.Mutex
	name string
	f    io.ReadSeekCloser
	r    *bufio.Reader
}

// Open opens the thermal zone file at path.
func Open(path string) (*Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return newZone(path, f), nil
}

func newZone(name string, f io.ReadSeekCloser) *Zone {
	return &Zone{
		name: name,
		f:    f,
		r:    bufio.NewReader(f),
	}
}

// Read returns the present temperature of the zone.
func (z *Zone) Read() (units.Celsius, error) {
	z.m.Lock()
	defer z.m.Unlock()

	if z.f == nil {
		return 0, ErrClosed
	}

	if _, err := z.f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	z.r.Reset(z.f)

	line, err := z.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return 0, fmt.Errorf("reading '%s': %w", z.name, err)
	}

	line = strings.TrimSpace(line)
	milli, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' in '%s'", ErrInvalidValue, line, z.name)
	}

	return units.FromMilliCelsius(milli), nil
}

// Close releases the zone.  Subsequent calls do nothing.
func (z *Zone) Close() error {
	z.m.Lock()
	defer z.m.Unlock()

	if z.f == nil {
		return nil
	}

	err := z.f.Close()
	z.f = nil
	return err
}

func (z *Zone) String() string {
	return z.name
}
