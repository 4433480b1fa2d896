package config

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the settings of the envguard command
type Config struct {
	// Schema is the path of the schema document
	Schema string `mapstructure:"schema" validate:"required"`

	// Dotenv is the dotenv file merged into the environment; empty disables it
	Dotenv string `mapstructure:"dotenv"`

	// Example is the path the generate command writes to
	Example string `mapstructure:"example" validate:"required"`

	// Strict reports variables that are not in the schema
	Strict bool `mapstructure:"strict"`

	// Output specifies the output format (text, json or yaml)
	Output string `mapstructure:"output" validate:"oneof=text json yaml"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no_color"`

	// ShowSecrets prints secret-looking values unmasked
	ShowSecrets bool `mapstructure:"show_secrets"`

	// Workers is the number of dotenv files checked concurrently
	Workers int `mapstructure:"workers" validate:"gte=0"`

	// RateLimit is the maximum number of checks started per second (0 for unlimited)
	RateLimit int `mapstructure:"rate_limit" validate:"gte=0"`

	// Verbose sets the verbosity level
	Verbose int `mapstructure:"verbose" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their environment variable names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return EnvPrefix + "_" + strings.ToUpper(name)
	})
	return v
}

// Load reads configuration from ENVGUARD_* environment variables and
// validates it
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("schema", DefaultSchemaFile)
	v.SetDefault("dotenv", DefaultDotenvFile)
	v.SetDefault("example", DefaultExampleFile)
	v.SetDefault("strict", false)
	v.SetDefault("output", string(OutputFormatText))
	v.SetDefault("no_color", false)
	v.SetDefault("show_secrets", false)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// ENVGUARD_VERBOSE is either a count or a run of 'v's
	if verboseStr := strings.TrimSpace(v.GetString("verbose")); verboseStr != "" {
		if n, err := strconv.Atoi(verboseStr); err == nil {
			v.Set("verbose", n)
		} else {
			v.Set("verbose", strings.Count(verboseStr, "v"))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Output = strings.ToLower(cfg.Output)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must be set", fe.Field())
	case "oneof":
		return fmt.Sprintf("invalid %s: must be one of [%s]", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Schema: %s, Dotenv: %s, Example: %s, Strict: %v, Output: %s, "+
			"NoColor: %v, ShowSecrets: %v, Workers: %d, RateLimit: %d, Verbose: %d}",
		c.Schema, c.Dotenv, c.Example, c.Strict, c.Output,
		c.NoColor, c.ShowSecrets, c.Workers, c.RateLimit, c.Verbose,
	)
}
