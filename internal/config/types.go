package config

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	// OutputFormatText is the human-readable status report
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON represents the JSON output format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML output format
	OutputFormatYAML OutputFormat = "yaml"
)

const (
	// EnvPrefix prefixes every configuration variable
	EnvPrefix = "ENVGUARD"

	// DefaultSchemaFile is the schema document read when none is configured
	DefaultSchemaFile = "envguard.yaml"

	// DefaultDotenvFile is the dotenv file merged before validation
	DefaultDotenvFile = ".env"

	// DefaultExampleFile is where example files are generated
	DefaultExampleFile = ".env.example"

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4
)
