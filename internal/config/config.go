// Package config loads the YAML driver configuration for the eon-sim
// binary, the way the teacher's internal/cli loaders decode per-subcommand
// YAML into a typed struct (see loadSDNConfig, loadConfig).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved driver configuration: where the scenario
// lives, where its results are written, and how the observability layer
// should be wired.
type Config struct {
	ScenarioPath string
	ResultPath   string

	StatusAddr string

	Observability ObservabilityConfig
}

// ObservabilityConfig mirrors observability.Config's shape (this package
// cannot import observability without an import cycle risk once the CLI
// wires both, so it is kept as a plain value struct and translated by the
// caller).
type ObservabilityConfig struct {
	Service   string
	TraceAddr string
	LogAddr   string
	Metrics   bool
}

const defaultStatusAddr = ":9090"

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	type yamlConfig struct {
		Scenario struct {
			Path   string `yaml:"path"`
			Result string `yaml:"result_path"`
		} `yaml:"scenario"`
		Status struct {
			Addr string `yaml:"addr"`
		} `yaml:"status"`
		Observability struct {
			Service       string `yaml:"service"`
			TraceAddr     string `yaml:"trace_addr"`
			LogAddr       string `yaml:"log_addr"`
			MetricsEnable bool   `yaml:"metrics"`
		} `yaml:"observability"`
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	var y yamlConfig
	if err := yaml.NewDecoder(file).Decode(&y); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if y.Scenario.Path == "" {
		return nil, fmt.Errorf("config: scenario.path is required")
	}

	statusAddr := y.Status.Addr
	if statusAddr == "" {
		statusAddr = defaultStatusAddr
	}

	return &Config{
		ScenarioPath: y.Scenario.Path,
		ResultPath:   y.Scenario.Result,
		StatusAddr:   statusAddr,
		Observability: ObservabilityConfig{
			Service:   y.Observability.Service,
			TraceAddr: y.Observability.TraceAddr,
			LogAddr:   y.Observability.LogAddr,
			Metrics:   y.Observability.MetricsEnable,
		},
	}, nil
}

// DefaultShutdownTimeout is how long the driver waits for the status/
// metrics HTTP server to drain in-flight requests on shutdown.
const DefaultShutdownTimeout = 10 * time.Second
