// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/schmidtw/templog/aht10"
	"github.com/schmidtw/templog/logfile"
	"github.com/schmidtw/templog/sampler"
	"github.com/schmidtw/templog/shutdown"
	"github.com/schmidtw/templog/thermal"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"periph.io/x/host/v3"
)

// sensor is the part of the AHT10 the daemon drives.
type sensor interface {
	Initialize() error
	Measure() (aht10.Sample, error)
}

// commonOptions provides everything the commands share except the sensor,
// which comes from sensorOptions.  Hooks stop in the reverse order they were
// added, so the log file closes last.
func commonOptions(cfg Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			provideLogSink,
			provideLogger,
			provideZone,
			shutdown.New,
			provideSampler,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel)),
			}
		}),
	)
}

func provideLogSink(lc fx.Lifecycle, cfg Config) (*logfile.Sink, error) {
	sink, err := logfile.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: sink.Start,
		OnStop:  sink.Stop,
	})

	return sink, nil
}

func provideLogger(sink *logfile.Sink) *zap.Logger {
	return sink.Logger()
}

func provideZone(lc fx.Lifecycle, cfg Config) (*thermal.Zone, error) {
	zone, err := thermal.Open(cfg.Thermal.Path)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return zone.Close()
		},
	})

	return zone, nil
}

// sensorOptions provides the AHT10 on the configured bus.
func sensorOptions() fx.Option {
	return fx.Provide(
		provideSensor,
		func(dev *aht10.Dev) sensor {
			return dev
		},
	)
}

func provideSensor(lc fx.Lifecycle, cfg Config, log *zap.Logger) (*aht10.Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	dev := aht10.New(aht10.Config{Bus: cfg.Sensor.Bus}, aht10.WithLogger(log))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Debug("Opening sensor.", zap.Stringer("sensor", dev))
			return dev.Open()
		},
		OnStop: func(context.Context) error {
			return dev.Close()
		},
	})

	return dev, nil
}

func provideSampler(dev sensor, zone *thermal.Zone, flag *shutdown.Flag, log *zap.Logger) (*sampler.Sampler, error) {
	return sampler.New(sampler.Config{
		Sensor:      dev,
		Thermometer: zone,
		Logger:      log,
		Shutdown:    flag,
	})
}

// startLoop calibrates the sensor and runs the sampler for the life of the
// application.
func startLoop(lc fx.Lifecycle, dev sensor, s *sampler.Sampler, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting temperature monitor.")
			log.Info("Initializing sensor with calibration.")
			if err := dev.Initialize(); err != nil {
				return err
			}
			return s.Start(ctx)
		},
		OnStop: s.Stop,
	})
}

// withApp starts an application built from the common options plus opts,
// calls fn and stops the application again.
func withApp(cfg Config, fn func() error, opts ...fx.Option) error {
	app := fx.New(append([]fx.Option{commonOptions(cfg)}, opts...)...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return err
	}

	err := fn()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()

	return multierr.Append(err, app.Stop(stopCtx))
}
