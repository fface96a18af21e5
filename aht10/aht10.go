// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package aht10

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
)

const deviceAddress = 0x38

const (
	cmdSoftReset  byte = 0xBA
	cmdInitialize byte = 0xE1
	cmdMeasure    byte = 0xAC
	regData       byte = 0x00
)

const (
	paramCalibrate byte = 0x08
	paramNoop      byte = 0x00
)

var (
	argsInitialize = []byte{cmdInitialize, paramCalibrate, paramNoop}
	argsMeasure    = []byte{cmdMeasure, cmdMeasure, paramNoop}
	argsSoftReset  = []byte{cmdSoftReset}
	argsReadData   = []byte{regData}
)

const (
	settleTime     = 100 * time.Millisecond
	conversionTime = 100 * time.Millisecond
	resetTime      = 20 * time.Millisecond
)

var (
	errAlreadyOpen = errors.New("already open")
	errNotOpen     = errors.New("not open")
)

// Config holds the bus the sensor is attached to.
type Config struct {
	// Bus is the periph I²C bus name.  An empty name picks the first bus
	// registered on the host.
	Bus string
}

// Option configures a Dev.
type Option interface {
	apply(d *Dev)
}

// Dev is an AHT10 attached to an I²C bus.
type Dev struct {
	m         sync.Mutex
	config    Config
	clock     clock.Clock
	logger    *zap.Logger
	ioWrapper busWrapper
	d         *i2c.Dev
}

// New makes a new, unopened sensor.
func New(c Config, opts ...Option) *Dev {
	d := Dev{
		config:    c,
		clock:     clock.New(),
		logger:    zap.NewNop(),
		ioWrapper: &hwWrapper{},
	}

	for _, opt := range opts {
		opt.apply(&d)
	}

	return &d
}

// Open acquires the bus.
func (d *Dev) Open() error {
	d.m.Lock()
	defer d.m.Unlock()

	if d.d != nil {
		return errAlreadyOpen
	}

	bus, err := d.ioWrapper.Open(d.config.Bus)
	if err != nil {
		return err
	}

	d.d = &i2c.Dev{Bus: bus, Addr: deviceAddress}
	return nil
}

// Close releases the bus.  Closing a sensor that is not open does nothing.
func (d *Dev) Close() error {
	d.m.Lock()
	defer d.m.Unlock()

	if d.d == nil {
		return nil
	}

	d.d = nil
	return d.ioWrapper.Close()
}

// Initialize sends the calibration command and waits for the sensor to
// settle.  It must be called once before the first Measure.
func (d *Dev) Initialize() error {
	d.m.Lock()
	defer d.m.Unlock()

	if err := d.tx(argsInitialize, nil); err != nil {
		return fmt.Errorf("calibrating sensor: %w", err)
	}
	d.clock.Sleep(settleTime)

	return nil
}

// Measure triggers a conversion, waits for it to finish and returns the raw
// sample.
func (d *Dev) Measure() (Sample, error) {
	d.m.Lock()
	defer d.m.Unlock()

	// The status byte is read for its side effect only.
	status := make([]byte, 1)
	if err := d.tx(nil, status); err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	d.logger.Debug("Starting measurement.")
	if err := d.tx(argsMeasure, nil); err != nil {
		return nil, fmt.Errorf("triggering measurement: %w", err)
	}

	d.logger.Debug("Waiting to retrieve measurement data...")
	d.clock.Sleep(conversionTime)

	s := make(Sample, SampleSize)
	if err := d.tx(argsReadData, s); err != nil {
		return nil, fmt.Errorf("reading measurement: %w", err)
	}

	return s, nil
}

// SoftReset reboots the sensor.  Initialize must be called again afterwards.
func (d *Dev) SoftReset() error {
	d.m.Lock()
	defer d.m.Unlock()

	if err := d.tx(argsSoftReset, nil); err != nil {
		return fmt.Errorf("resetting sensor: %w", err)
	}
	d.clock.Sleep(resetTime)

	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("AHT10{bus: '%s', addr: 0x%02x}", d.config.Bus, deviceAddress)
}

func (d *Dev) tx(w, r []byte) error {
	if d.d == nil {
		return errNotOpen
	}
	return d.d.Tx(w, r)
}

// UseClock provides a way to set the clock used for the sensor delays.  This
// is used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(d *Dev) {
	d.clock = c.clk
}

// WithLogger sets the logger used for the debug trace of each measurement.
func WithLogger(l *zap.Logger) Option {
	return &loggerOption{l: l}
}

type loggerOption struct {
	l *zap.Logger
}

func (o loggerOption) apply(d *Dev) {
	if o.l != nil {
		d.logger = o.l
	}
}

func useWrapper(w busWrapper) Option {
	return &wrapperOption{w: w}
}

type wrapperOption struct {
	w busWrapper
}

func (w wrapperOption) apply(d *Dev) {
	d.ioWrapper = w.w
}
