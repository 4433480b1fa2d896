package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{
		Schema:  DefaultSchemaFile,
		Dotenv:  DefaultDotenvFile,
		Example: DefaultExampleFile,
		Output:  "text",
		Workers: runtime.NumCPU(),
	}
}

func TestConfig(t *testing.T) {
	envVars := []string{
		"ENVGUARD_SCHEMA",
		"ENVGUARD_DOTENV",
		"ENVGUARD_EXAMPLE",
		"ENVGUARD_STRICT",
		"ENVGUARD_OUTPUT",
		"ENVGUARD_NO_COLOR",
		"ENVGUARD_SHOW_SECRETS",
		"ENVGUARD_WORKERS",
		"ENVGUARD_RATE_LIMIT",
		"ENVGUARD_VERBOSE",
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected func() Config
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "default configuration",
			expected: defaultConfig,
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"ENVGUARD_SCHEMA":       "schema.json",
				"ENVGUARD_DOTENV":       "local.env",
				"ENVGUARD_EXAMPLE":      "sample.env",
				"ENVGUARD_STRICT":       "true",
				"ENVGUARD_OUTPUT":       "json",
				"ENVGUARD_NO_COLOR":     "true",
				"ENVGUARD_SHOW_SECRETS": "true",
				"ENVGUARD_WORKERS":      "1",
				"ENVGUARD_RATE_LIMIT":   "100",
				"ENVGUARD_VERBOSE":      "vv",
			},
			expected: func() Config {
				return Config{
					Schema:      "schema.json",
					Dotenv:      "local.env",
					Example:     "sample.env",
					Strict:      true,
					Output:      "json",
					NoColor:     true,
					ShowSecrets: true,
					Workers:     1,
					RateLimit:   100,
					Verbose:     2,
				}
			},
		},
		{
			name: "output format is case insensitive",
			envVars: map[string]string{
				"ENVGUARD_OUTPUT": "YAML",
			},
			expected: func() Config {
				cfg := defaultConfig()
				cfg.Output = "yaml"
				return cfg
			},
		},
		{
			name: "invalid workers count - negative",
			envVars: map[string]string{
				"ENVGUARD_WORKERS": "-1",
			},
			wantErr: true,
			errMsg:  "ENVGUARD_WORKERS must be at least 0",
		},
		{
			name: "workers count zero defaults to cpu count",
			envVars: map[string]string{
				"ENVGUARD_WORKERS": "0",
			},
			expected: defaultConfig,
		},
		{
			name: "invalid output format",
			envVars: map[string]string{
				"ENVGUARD_OUTPUT": "invalid",
			},
			wantErr: true,
			errMsg:  "invalid ENVGUARD_OUTPUT: must be one of [text json yaml]",
		},
		{
			name: "invalid rate limit - negative",
			envVars: map[string]string{
				"ENVGUARD_RATE_LIMIT": "-1",
			},
			wantErr: true,
			errMsg:  "ENVGUARD_RATE_LIMIT must be at least 0",
		},
		{
			name: "numeric verbosity level",
			envVars: map[string]string{
				"ENVGUARD_VERBOSE": "3",
			},
			expected: func() Config {
				cfg := defaultConfig()
				cfg.Verbose = 3
				return cfg
			},
		},
		{
			name: "multiple verbosity levels",
			envVars: map[string]string{
				"ENVGUARD_VERBOSE": "vvv",
			},
			expected: func() Config {
				cfg := defaultConfig()
				cfg.Verbose = 3
				return cfg
			},
		},
		{
			name: "boolean parsing - various true values",
			envVars: map[string]string{
				"ENVGUARD_STRICT":   "true",
				"ENVGUARD_NO_COLOR": "1",
			},
			expected: func() Config {
				cfg := defaultConfig()
				cfg.Strict = true
				cfg.NoColor = true
				return cfg
			},
		},
		{
			name: "boolean parsing - various false values",
			envVars: map[string]string{
				"ENVGUARD_STRICT":   "false",
				"ENVGUARD_NO_COLOR": "0",
			},
			expected: defaultConfig,
		},
		{
			name: "maximum workers limit",
			envVars: map[string]string{
				"ENVGUARD_WORKERS": "1000000",
			},
			wantErr: true,
			errMsg:  "workers count cannot exceed system CPU count * 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// empty values read as unset
			for _, key := range envVars {
				t.Setenv(key, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected(), cfg)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier

	valid := func(mutate func(*Config)) Config {
		cfg := defaultConfig()
		if mutate != nil {
			mutate(&cfg)
		}
		return cfg
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			config: valid(nil),
		},
		{
			name:    "missing schema path",
			config:  valid(func(c *Config) { c.Schema = "" }),
			wantErr: true,
			errMsg:  "ENVGUARD_SCHEMA must be set",
		},
		{
			name:   "dotenv disabled",
			config: valid(func(c *Config) { c.Dotenv = "" }),
		},
		{
			name:    "invalid workers count - negative",
			config:  valid(func(c *Config) { c.Workers = -1 }),
			wantErr: true,
			errMsg:  "ENVGUARD_WORKERS must be at least 0",
		},
		{
			name:    "invalid workers count - exceeds max",
			config:  valid(func(c *Config) { c.Workers = maxWorkers + 1 }),
			wantErr: true,
			errMsg:  "workers count cannot exceed system CPU count * 4",
		},
		{
			name:    "invalid output format",
			config:  valid(func(c *Config) { c.Output = "tree" }),
			wantErr: true,
			errMsg:  "invalid ENVGUARD_OUTPUT",
		},
		{
			name:    "invalid rate limit",
			config:  valid(func(c *Config) { c.RateLimit = -1 }),
			wantErr: true,
			errMsg:  "ENVGUARD_RATE_LIMIT must be at least 0",
		},
		{
			name: "multiple errors are joined",
			config: valid(func(c *Config) {
				c.Output = "xml"
				c.RateLimit = -5
			}),
			wantErr: true,
			errMsg:  "invalid ENVGUARD_OUTPUT: must be one of [text json yaml]; ENVGUARD_RATE_LIMIT must be at least 0",
		},
		{
			name:   "verbosity level validation",
			config: valid(func(c *Config) { c.Verbose = 4 }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := defaultConfig()
	cfg.Workers = 2
	assert.Equal(t,
		"Config{Schema: envguard.yaml, Dotenv: .env, Example: .env.example, Strict: false, Output: text, "+
			"NoColor: false, ShowSecrets: false, Workers: 2, RateLimit: 0, Verbose: 0}",
		cfg.String())
}
