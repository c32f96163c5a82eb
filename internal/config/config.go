package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	apperrors "mortpca/internal/errors"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

// DataConfig holds input and output locations
type DataConfig struct {
	MortalityFile  string `env:"MORTALITY_FILE" validate:"required"`
	PopulationFile string `env:"POPULATION_FILE" validate:"required"`
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"./out" validate:"required"`
}

// AnalysisConfig holds pivot and decomposition settings
type AnalysisConfig struct {
	DuplicatePolicy string `env:"DUPLICATE_POLICY" envDefault:"reject" validate:"oneof=reject first mean"`
	Components      int    `env:"COMPONENTS" envDefault:"2" validate:"min=2,max=7"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
}

// Overrides replace environment values when non-empty; they come from the
// command line.
type Overrides struct {
	EnvFile        string
	MortalityFile  string
	PopulationFile string
	OutputDir      string
}

// Load reads an optional .env file, then the environment, applies overrides
// and validates the result.
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if o.EnvFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("load env file %s: %w", envFile, err))
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("parse env: %w", err))
	}

	if o.MortalityFile != "" {
		cfg.Data.MortalityFile = o.MortalityFile
	}
	if o.PopulationFile != "" {
		cfg.Data.PopulationFile = o.PopulationFile
	}
	if o.OutputDir != "" {
		cfg.Data.OutputDir = o.OutputDir
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Join(apperrors.ConfigInvalid("configuration validation failed"), err)
	}
	return cfg, nil
}

var validate = validator.New()

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
