// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package sampler runs the periodic measurement loop.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/schmidtw/templog/aht10"
	"github.com/schmidtw/templog/shutdown"
	"github.com/schmidtw/templog/units"
	"go.uber.org/zap"
)

// DefaultInterval is the time between readings.
const DefaultInterval = 60 * time.Second

const exitingMsg = "Daemon is exiting..."

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	errAlreadyStarted   = errors.New("already started")
)

// State is where the sampler is in its life.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Sensor produces raw samples.
type Sensor interface {
	Measure() (aht10.Sample, error)
}

// Thermometer reads the CPU temperature.  The sampler closes it when it
// stops.
type Thermometer interface {
	Read() (units.Celsius, error)
	Close() error
}

// Reading is one decoded set of measurements.
type Reading struct {
	Temperature units.Celsius
	Humidity    units.RelativeHumidity
	CPU         units.Celsius
}

// String formats the reading as it is logged.  The CPU temperature keeps the
// full precision the thermal zone reports.
func (r Reading) String() string {
	return fmt.Sprintf("Temperature: %s Humidity: %s CPU Temp: %s",
		r.Temperature, r.Humidity, r.CPU.Precise())
}

// Config provides the sampler's collaborators.
type Config struct {
	Sensor      Sensor
	Thermometer Thermometer
	Logger      *zap.Logger

	// Shutdown stops the loop once set.  A new flag is made if nil.
	Shutdown *shutdown.Flag

	// Interval defaults to DefaultInterval.
	Interval time.Duration
}

type Option interface {
	apply(s *Sampler)
}

// Sampler reads the sensor and the CPU temperature once per interval and logs
// the results until it is told to stop.
type Sampler struct {
	m        sync.Mutex
	state    State
	sensor   Sensor
	thermo   Thermometer
	logger   *zap.Logger
	flag     *shutdown.Flag
	interval time.Duration
	clock    clock.Clock
	started  bool
	done     chan struct{}
	err      error
}

// New makes a new sampler.
func New(cfg Config, opts ...Option) (*Sampler, error) {
	if cfg.Sensor == nil || cfg.Thermometer == nil {
		return nil, ErrInvalidParameter
	}
	if cfg.Interval < 0 {
		return nil, ErrInvalidParameter
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Shutdown == nil {
		cfg.Shutdown = shutdown.New()
	}

	s := Sampler{
		sensor:   cfg.Sensor,
		thermo:   cfg.Thermometer,
		logger:   cfg.Logger,
		flag:     cfg.Shutdown,
		interval: cfg.Interval,
		clock:    clock.New(),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt.apply(&s)
	}

	return &s, nil
}

// Sample takes one reading.
func (s *Sampler) Sample() (Reading, error) {
	raw, err := s.sensor.Measure()
	if err != nil {
		return Reading{}, err
	}

	var r Reading
	if r.Temperature, err = aht10.DecodeTemperature(raw); err != nil {
		return Reading{}, err
	}
	if r.Humidity, err = aht10.DecodeHumidity(raw); err != nil {
		return Reading{}, err
	}
	if r.CPU, err = s.thermo.Read(); err != nil {
		return Reading{}, err
	}

	return r, nil
}

// Run samples until the shutdown flag is set or a sample fails.  It returns
// the failure, if any.  Run may only be called once.
func (s *Sampler) Run() error {
	if !s.begin() {
		return errAlreadyStarted
	}
	return s.loop()
}

func (s *Sampler) begin() bool {
	s.m.Lock()
	defer s.m.Unlock()

	if s.started {
		return false
	}
	s.started = true
	s.state = Running
	return true
}

func (s *Sampler) loop() error {
	var err error
	for !s.flag.IsSet() {
		var r Reading
		r, err = s.Sample()
		if err != nil {
			break
		}
		s.logger.Info(r.String())

		s.flag.Wait(s.clock, s.interval)
	}

	s.setState(Stopping)
	s.logger.Info(exitingMsg)

	if e := s.thermo.Close(); e != nil && err == nil {
		err = e
	}

	s.m.Lock()
	s.err = err
	s.state = Stopped
	s.m.Unlock()
	close(s.done)

	return err
}

// Start runs the loop in the background.
func (s *Sampler) Start(_ context.Context) error {
	if !s.begin() {
		return errAlreadyStarted
	}

	go func() {
		_ = s.loop()
	}()
	return nil
}

// Stop sets the shutdown flag and waits for the loop to finish its present
// cycle, or for ctx to end.
func (s *Sampler) Stop(ctx context.Context) error {
	s.flag.Set()

	s.m.Lock()
	started := s.started
	s.m.Unlock()

	if !started {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once the loop has stopped.
func (s *Sampler) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the loop, if any.
func (s *Sampler) Err() error {
	s.m.Lock()
	defer s.m.Unlock()
	return s.err
}

// State returns the present state of the loop.
func (s *Sampler) State() State {
	s.m.Lock()
	defer s.m.Unlock()
	return s.state
}

func (s *Sampler) setState(st State) {
	s.m.Lock()
	s.state = st
	s.m.Unlock()
}

// UseClock provides a way to set the clock used.  This is used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(s *Sampler) {
	s.clock = c.clk
}
