package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sonemaro/envguard/cmd/envguard/app"
	"github.com/sonemaro/envguard/internal/version"
	"github.com/sonemaro/envguard/pkg/env"
	"github.com/sonemaro/envguard/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
variables:
  PORT: { type: port, default: 8080 }
  MODE: { type: string, choices: [dev, prod] }
`

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVGUARD_SCHEMA", "ENVGUARD_DOTENV", "ENVGUARD_EXAMPLE", "ENVGUARD_STRICT",
		"ENVGUARD_OUTPUT", "ENVGUARD_NO_COLOR", "ENVGUARD_SHOW_SECRETS",
		"ENVGUARD_WORKERS", "ENVGUARD_RATE_LIMIT", "ENVGUARD_VERBOSE",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, fs afero.Fs, vars map[string]string, args ...string) (string, error) {
	t.Helper()
	clearConfigEnv(t)

	cmd := NewRootCommand(
		app.WithFs(fs),
		app.WithEnv(env.NewMap(vars)),
		app.WithLogger(logger.Nop()),
	)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func schemaFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "envguard.yaml", []byte(testSchema), 0o644))
	return fs
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name     string
		vars     map[string]string
		files    map[string]string
		args     []string
		wantErr  error
		errMsg   string
		contains []string
	}{
		{
			name:     "valid environment",
			vars:     map[string]string{"MODE": "dev"},
			args:     []string{"check"},
			contains: []string{"All required environment variables are valid."},
		},
		{
			name:     "invalid environment",
			vars:     map[string]string{"MODE": "qa"},
			args:     []string{"check"},
			wantErr:  app.ErrCheckFailed,
			contains: []string{`Invalid value "qa" for environment variable MODE`},
		},
		{
			name:     "dotenv file from flag",
			vars:     map[string]string{},
			files:    map[string]string{"local.env": "MODE=prod\n"},
			args:     []string{"check", "--dotenv", "local.env"},
			contains: []string{"  - MODE: prod"},
		},
		{
			name:  "env files",
			vars:  map[string]string{},
			files: map[string]string{"a.env": "MODE=dev\n", "b.env": "MODE=prod\n"},
			args:  []string{"check", "-e", "a.env", "-e", "b.env", "-w", "2", "-r", "100"},
			contains: []string{
				"Source: a.env",
				"Source: b.env",
			},
		},
		{
			name:   "schema from flag",
			vars:   map[string]string{},
			args:   []string{"check", "--schema", "missing.yaml"},
			errMsg: "failed to read schema",
		},
		{
			name:   "invalid output format",
			vars:   map[string]string{},
			args:   []string{"check", "-o", "xml"},
			errMsg: "invalid configuration: invalid ENVGUARD_OUTPUT",
		},
		{
			name:   "invalid workers",
			vars:   map[string]string{},
			args:   []string{"check", "-w", "-3"},
			errMsg: "ENVGUARD_WORKERS must be at least 0",
		},
		{
			name:   "positional arguments rejected",
			vars:   map[string]string{},
			args:   []string{"check", "extra"},
			errMsg: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := schemaFs(t)
			for name, content := range tt.files {
				require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
			}

			out, err := execute(t, fs, tt.vars, tt.args...)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				assert.NoError(t, err)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestCommandLogsToErrorStream(t *testing.T) {
	clearConfigEnv(t)

	cmd := NewRootCommand(
		app.WithFs(schemaFs(t)),
		app.WithEnv(env.NewMap(map[string]string{"MODE": "dev"})),
	)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"check", "-v"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Initializing command")
	assert.Contains(t, errOut.String(), "Application initialized")
	assert.Contains(t, errOut.String(), "Starting environment checks")
	assert.NotContains(t, out.String(), "Starting environment checks")
}

func TestReportCommand(t *testing.T) {
	out, err := execute(t, schemaFs(t), map[string]string{"MODE": "qa"}, "report", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Valid  bool `json:"valid"`
		Checks []struct {
			Statistics map[string]int `json:"statistics"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.False(t, doc.Valid)
	require.Len(t, doc.Checks, 1)
	assert.Equal(t, 1, doc.Checks[0].Statistics["invalid"])
}

func TestStatusCommand(t *testing.T) {
	out, err := execute(t, schemaFs(t), map[string]string{"MODE": "dev"}, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "===== Environment Variables Status =====")
	assert.Contains(t, out, "  - PORT: 8080")
}

func TestGenerateCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		path string
	}{
		{name: "default path", args: []string{"generate"}, path: ".env.example"},
		{name: "file flag", args: []string{"generate", "-f", "sample.env"}, path: "sample.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := schemaFs(t)

			out, err := execute(t, fs, map[string]string{}, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, "Wrote "+tt.path+"\n", out)

			content, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, "# Environment Variables Example\n\n"+
				"MODE=dev # Choices: dev, prod\n"+
				"PORT=8080 # Default value\n", string(content))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), nil, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = execute(t, afero.NewMemMapFs(), nil, "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "envguard "+version.Version)
}
