// Package config provides configuration management for the envguard
// command. It reads ENVGUARD_* environment variables through viper and
// validates them with go-playground/validator.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Command-line flags override the loaded values.
//
// # Environment Variables
//
//	ENVGUARD_SCHEMA        Schema document (default: envguard.yaml)
//	ENVGUARD_DOTENV        Dotenv file merged before validation (default: .env, empty disables)
//	ENVGUARD_EXAMPLE       Example file written by generate (default: .env.example)
//	ENVGUARD_STRICT        Report variables missing from the schema (true/false)
//	ENVGUARD_OUTPUT        Output format: text|json|yaml
//	ENVGUARD_NO_COLOR      Disable colored output (true/false)
//	ENVGUARD_SHOW_SECRETS  Print secret values unmasked (true/false)
//	ENVGUARD_WORKERS       Dotenv files checked concurrently (default: CPU cores)
//	ENVGUARD_RATE_LIMIT    Checks started per second (0 for unlimited)
//	ENVGUARD_VERBOSE       Verbosity level (a number or a run of 'v's)
//
// # Configuration Validation
//
//   - Schema and Example must be set
//   - Output must be one of: text, json, yaml
//   - Workers must not be negative and may not exceed CPU cores * 4; 0 means CPU cores
//   - RateLimit and Verbose must not be negative
//
// Validation errors name the offending variable:
//
//	invalid ENVGUARD_OUTPUT: must be one of [text json yaml]
package config
