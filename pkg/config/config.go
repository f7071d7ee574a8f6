// Package config resolves server settings from defaults, the environment and
// command-line flags, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Defaults.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8787
	DefaultGRPCPort            = 8788
	DefaultMaxExpressionLength = 400
	DefaultBatchLimit          = 100
)

// Config holds the settings shared by the HTTP and gRPC servers.
type Config struct {
	Host     string
	Port     int
	GRPCPort int

	// MaxExpressionLength bounds the byte length of an expression accepted
	// from the network. The evaluator itself enforces no limit.
	MaxExpressionLength int

	// BatchLimit bounds the number of expressions in one batch request.
	BatchLimit int

	// Workers bounds how many expressions of a batch are evaluated at once.
	Workers int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:                DefaultHost,
		Port:                DefaultPort,
		GRPCPort:            DefaultGRPCPort,
		MaxExpressionLength: DefaultMaxExpressionLength,
		BatchLimit:          DefaultBatchLimit,
		Workers:             runtime.GOMAXPROCS(0),
	}
}

// FromEnv returns the default configuration overridden by HOST, PORT,
// GRPC_PORT, MAX_EXPRESSION_LENGTH, BATCH_LIMIT and WORKERS.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup("HOST"); ok && v != "" {
		cfg.Host = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Port},
		{"GRPC_PORT", &cfg.GRPCPort},
		{"MAX_EXPRESSION_LENGTH", &cfg.MaxExpressionLength},
		{"BATCH_LIMIT", &cfg.BatchLimit},
		{"WORKERS", &cfg.Workers},
	}
	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}
	return cfg, cfg.Validate()
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("grpc port %d out of range", c.GRPCPort)
	}
	if c.MaxExpressionLength <= 0 {
		return fmt.Errorf("max expression length must be positive, got %d", c.MaxExpressionLength)
	}
	if c.BatchLimit <= 0 {
		return fmt.Errorf("batch limit must be positive, got %d", c.BatchLimit)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}
