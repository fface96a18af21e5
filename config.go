// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"

	"github.com/goschtalt/casemapper"
	"github.com/goschtalt/goschtalt"
	_ "github.com/goschtalt/yaml-decoder"
	_ "github.com/goschtalt/yaml-encoder"
	"github.com/schmidtw/templog/logfile"
	"github.com/schmidtw/templog/thermal"
)

// Config is the whole configuration of the daemon.  The sampling interval
// and the sensor timings are fixed and not part of it.
type Config struct {
	Sensor  SensorConfig
	Thermal ThermalConfig
	Logging logfile.Config
}

// SensorConfig selects the I²C bus the AHT10 is attached to.
type SensorConfig struct {
	Bus string
}

// ThermalConfig selects the thermal zone reported as the CPU temperature.
type ThermalConfig struct {
	Path string
}

var defaultConfig = Config{
	Sensor: SensorConfig{
		Bus: "1",
	},
	Thermal: ThermalConfig{
		Path: thermal.DefaultZone,
	},
	Logging: logfile.Config{
		Directory: "/var/log/" + applicationName,
		Filename:  "environment_temperature.log",
		MaxAge:    7,
		Level:     "info",
	},
}

// newConfig merges the files over the built-in defaults in the order given.
// Keys are snake_case in both the files and the defaults.
func newConfig(files []string) (*goschtalt.Config, error) {
	opts := []goschtalt.Option{
		goschtalt.AutoCompile(),
		goschtalt.DefaultUnmarshalOptions(casemapper.ConfigStoredAs("two_words")),
		goschtalt.AddValue("built-in", "", defaultConfig,
			goschtalt.AsDefault(),
			casemapper.ConfigStoredAs("two_words"),
		),
	}

	for _, file := range files {
		opts = append(opts, goschtalt.AddFile(os.DirFS(filepath.Dir(file)), filepath.Base(file)))
	}

	return goschtalt.New(opts...)
}

func loadConfig(files []string) (Config, error) {
	gs, err := newConfig(files)
	if err != nil {
		return Config{}, err
	}

	cfg := defaultConfig
	if err := gs.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// showConfig returns the merged configuration as yaml.
func showConfig(files []string) ([]byte, error) {
	gs, err := newConfig(files)
	if err != nil {
		return nil, err
	}

	return gs.Marshal(goschtalt.FormatAs("yml"))
}
