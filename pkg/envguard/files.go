package envguard

import (
	"github.com/sonemaro/envguard/pkg/dotenv"
	"github.com/sonemaro/envguard/pkg/spec"
	"github.com/spf13/afero"
)

// DefaultExamplePath is where GenerateEnvFile writes when no path is given
const DefaultExamplePath = ".env.example"

// GenerateEnvFile writes an example env file for schema to path
// (".env.example" when empty)
func GenerateEnvFile(schema spec.Schema, path string) error {
	if path == "" {
		path = DefaultExamplePath
	}
	return dotenv.WriteExample(afero.NewOsFs(), schema, path)
}

// LoadEnvFile reads a KEY=value file with the forgiving line parser. It
// does not modify the environment.
func LoadEnvFile(path string) (map[string]string, error) {
	return dotenv.LoadFile(afero.NewOsFs(), path)
}
