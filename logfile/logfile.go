// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package logfile builds the daemon's logger.  Entries go to a log file that
// is cut every night and to the console, each with its own layout:
//
//	file:    2023-01-02_15:04:05 :: message
//	console: 2023-01-02 15:04:05.000 :: INFO :: message
package logfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FileTimeLayout    = "2006-01-02_15:04:05"
	ConsoleTimeLayout = "2006-01-02 15:04:05.000"

	separator = " :: "
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	errAlreadyStarted   = errors.New("already started")
)

// Config provides the log file options.
type Config struct {
	// Directory holds the log file.  It is created if missing.
	Directory string

	// Filename is the name of the active log file.
	Filename string

	// MaxAge is the number of days of old log files to keep.
	MaxAge int

	// Level is the minimum level logged, "info" if empty.
	Level string
}

// Path returns the full path to the active log file.
func (c Config) Path() string {
	return filepath.Join(c.Directory, c.Filename)
}

type Option interface {
	apply(s *Sink)
}

// Sink owns the log file and the logger writing to it.
type Sink struct {
	m       sync.Mutex
	file    *lumberjack.Logger
	console zapcore.WriteSyncer
	level   zap.AtomicLevel
	logger  *zap.Logger
	clock   clock.Clock
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New makes the log directory and the logger.  The nightly cut only happens
// between Start and Stop.
func New(c Config, opts ...Option) (*Sink, error) {
	if c.Filename == "" || c.MaxAge < 0 {
		return nil, ErrInvalidParameter
	}
	if c.Level == "" {
		c.Level = "info"
	}

	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: level '%s' %v", ErrInvalidParameter, c.Level, err)
	}

	if c.Directory != "" {
		if err := os.MkdirAll(c.Directory, 0755); err != nil {
			return nil, err
		}
	}

	s := Sink{
		file: &lumberjack.Logger{
			Filename:   c.Path(),
			MaxAge:     c.MaxAge,
			MaxBackups: c.MaxAge,
			LocalTime:  true,
		},
		console: zapcore.Lock(os.Stderr),
		level:   level,
		clock:   clock.New(),
	}

	for _, opt := range opts {
		opt.apply(&s)
	}

	s.logger = zap.New(zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(fileEncoderConfig()), zapcore.AddSync(s.file), s.level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), s.console, s.level),
	))

	return &s, nil
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(FileTimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: separator,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := fileEncoderConfig()
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(ConsoleTimeLayout)
	return cfg
}

// Logger returns the logger writing to both destinations.
func (s *Sink) Logger() *zap.Logger {
	return s.logger
}

// Start begins cutting the log file at each local midnight.
func (s *Sink) Start(_ context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.cancel != nil {
		return errAlreadyStarted
	}

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.loop(ctx)

	return nil
}

// Stop ends the nightly cut, flushes the logger and closes the file.
func (s *Sink) Stop(_ context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
		s.cancel = nil
	}

	// Syncing a terminal fails on some systems.
	_ = s.logger.Sync()

	return s.file.Close()
}

func (s *Sink) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		now := s.clock.Now()
		t := s.clock.Timer(nextMidnight(now).Sub(now))

		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			if err := s.file.Rotate(); err != nil {
				s.logger.Error("Unable to rotate the log file.", zap.Error(err))
			}
		}
	}
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// UseClock provides a way to set the clock used for the nightly cut.  This is
// used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(s *Sink) {
	s.clock = c.clk
}

// WithConsole replaces stderr as the console destination.
func WithConsole(w io.Writer) Option {
	return &consoleOption{w: w}
}

type consoleOption struct {
	w io.Writer
}

func (c consoleOption) apply(s *Sink) {
	s.console = zapcore.Lock(zapcore.AddSync(c.w))
}
