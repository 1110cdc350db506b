// Package config loads process-level settings shared by the command-line
// tools.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds defaults that flags may override.
type Env struct {
	// Seed overrides engine seeds when non-zero.
	Seed    int64  `env:"SEAM_SEED" envDefault:"0"`
	Format  string `env:"SEAM_FORMAT" envDefault:"text"`
	Steps   int    `env:"SEAM_STEPS" envDefault:"0"`
	Workers int    `env:"SEAM_WORKERS" envDefault:"0"`
	Presets string `env:"SEAM_PRESETS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
