// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/schmidtw/templog/aht10"
	"github.com/schmidtw/templog/sampler"
	"github.com/schmidtw/templog/shutdown"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const applicationName = "templog"

// CLI is the command line.  With no arguments the daemon runs with the
// built-in configuration.
type CLI struct {
	Files      []string `short:"f" name:"file" type:"existingfile" help:"Configuration file(s) applied over the built-in defaults, in order."`
	ShowConfig bool     `short:"s" help:"Show the merged configuration and exit."`

	Run   runCmd   `cmd:"" default:"1" help:"Log the readings every minute until a termination signal arrives."`
	Read  readCmd  `cmd:"" help:"Log a single reading and exit."`
	Reset resetCmd `cmd:"" help:"Soft reset the sensor and exit."`
}

type runCmd struct{}

func (runCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Files)
	if err != nil {
		return err
	}

	// Catch the signals before anything starts so one arriving during
	// startup is still logged and the hardware is released.
	sigs := make(chan os.Signal, len(exitSignals))
	signal.Notify(sigs, exitSignals...)
	defer signal.Stop(sigs)

	return runDaemon(cfg, sigs, sensorOptions())
}

// runDaemon samples until a signal arrives on sigs or the loop fails.
func runDaemon(cfg Config, sigs <-chan os.Signal, opts ...fx.Option) error {
	var (
		s    *sampler.Sampler
		flag *shutdown.Flag
		log  *zap.Logger
	)

	opts = append(opts,
		fx.Invoke(startLoop),
		fx.Populate(&s, &flag, &log),
	)

	return withApp(cfg,
		func() error {
			handleSignals(sigs, flag, log, s.Done())

			err := s.Err()
			if err != nil {
				log.Error("Sampling failed.", zap.Error(err))
			}
			return err
		},
		opts...,
	)
}

type readCmd struct{}

func (readCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Files)
	if err != nil {
		return err
	}

	var (
		s   *sampler.Sampler
		dev sensor
		log *zap.Logger
	)

	return withApp(cfg,
		func() error {
			if err := dev.Initialize(); err != nil {
				return err
			}

			r, err := s.Sample()
			if err != nil {
				return err
			}

			log.Info(r.String())
			return nil
		},
		sensorOptions(),
		fx.Populate(&s, &dev, &log),
	)
}

type resetCmd struct{}

func (resetCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Files)
	if err != nil {
		return err
	}

	var (
		dev *aht10.Dev
		log *zap.Logger
	)

	return withApp(cfg,
		func() error {
			if err := dev.SoftReset(); err != nil {
				return err
			}

			log.Info("Sensor reset.", zap.Stringer("sensor", dev))
			return nil
		},
		sensorOptions(),
		fx.Populate(&dev, &log),
	)
}

func newParser(cli *CLI, out io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name(applicationName),
		kong.Description("Logs the AHT10 temperature and humidity along with the CPU temperature."),
		kong.UsageOnError(),
		kong.Writers(out, out),
	)
}

func run(args []string, out io.Writer) error {
	var cli CLI

	parser, err := newParser(&cli, out)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.ShowConfig {
		b, err := showConfig(cli.Files)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}

	return ctx.Run(&cli)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", applicationName, err)
		os.Exit(1)
	}
}
