package envguard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sonemaro/envguard/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.example")

	schema := spec.Schema{
		"PORT": spec.Port(spec.PortConfig{Default: spec.Ptr(8080)}),
		"MODE": spec.Str(spec.StrConfig{Choices: []string{"dev", "prod"}}),
	}
	require.NoError(t, GenerateEnvFile(schema, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Environment Variables Example\n\n"+
		"MODE=dev # Choices: dev, prod\n"+
		"PORT=8080 # Default value\n", string(data))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("KEY1=value1\n# comment\nKEY2=\"quoted\""), 0644))

	values, err := LoadEnvFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"KEY1": "value1", "KEY2": "quoted"}, values)

	_, err = LoadEnvFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
