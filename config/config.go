// Package config loads the deployment-time simulation parameters
// (UART baud/clock, backing-store capacity, monitoring port) that, when
// set, take precedence over cmd/pulse run's flags, per SPEC_FULL.md
// §10.5: "a deployment can pin simulation parameters without a wrapper
// script."
//
// There is no .env-file loader in the teacher corpus; this package
// adopts github.com/joho/godotenv directly from the broader Go CLI
// idiom the teacher's own flags-plus-env cmd package implies, since no
// pack repo demonstrates this concern otherwise (see DESIGN.md).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the set of simulation parameters a deployment may pin via
// environment variables (or a .env file), all of them optional: a zero
// Config falls back entirely to cmd/pulse's own flag defaults.
type Config struct {
	MemoryCapacity uint64
	BaudRate       float64
	ClockFreqHz    float64
	MonitorPort    int
}

// FromEnv loads an optional .env file at path (if it exists; a missing
// file is not an error, matching godotenv.Load's own convention of
// being a no-op default for deployments that only use real environment
// variables) and returns the Config read from PULSE_MEMORY_CAPACITY,
// PULSE_BAUD_RATE, PULSE_CLOCK_FREQ_HZ, and PULSE_MONITOR_PORT.
func FromEnv(path string) (Config, error) {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return Config{}, err
		}
	}

	var cfg Config

	if v, ok := os.LookupEnv("PULSE_MEMORY_CAPACITY"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, err
		}

		cfg.MemoryCapacity = n
	}

	if v, ok := os.LookupEnv("PULSE_BAUD_RATE"); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, err
		}

		cfg.BaudRate = n
	}

	if v, ok := os.LookupEnv("PULSE_CLOCK_FREQ_HZ"); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, err
		}

		cfg.ClockFreqHz = n
	}

	if v, ok := os.LookupEnv("PULSE_MONITOR_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, err
		}

		cfg.MonitorPort = n
	}

	return cfg, nil
}
