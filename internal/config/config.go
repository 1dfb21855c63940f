// Package config loads the settings of the secv8 driver.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/g-m-twostay/cp-utils/internal/logging"
)

// Engine names accepted by Config.Engine.
const (
	EngineTreap = "treap"
	EngineList  = "list"
)

// Defaults.
const (
	DefaultInput      = "secv8.in"
	DefaultOutput     = "secv8.out"
	DefaultEngine     = EngineTreap
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	DefaultLogMaxSize = 10
)

// Config of a secv8 run. A Seed of 0 draws the treap priorities from the clock.
type Config struct {
	Input  string         `mapstructure:"input"  validate:"required"`
	Output string         `mapstructure:"output" validate:"required"`
	Engine string         `mapstructure:"engine" validate:"oneof=treap list"`
	Seed   uint64         `mapstructure:"seed"`
	Verify bool           `mapstructure:"verify"`
	Log    logging.Config `mapstructure:"log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
