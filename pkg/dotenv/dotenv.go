// Package dotenv reads and writes dotenv-style files.
//
// Two readers are provided. LoadFile is deliberately forgiving: it handles
// KEY=value lines with optional surrounding quotes and nothing else, which
// is what most hand-written .env files contain. Read understands the full
// dotenv syntax (export prefixes, inline comments, multi-line quoted values
// and ${VAR} expansion) and is what the validation engine uses.
package dotenv

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// LoadFile reads path with the forgiving line parser
func LoadFile(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return ParseSimple(data), nil
}

// ParseSimple parses KEY=value lines. Blank lines, comment lines and lines
// without "=" are skipped, as are lines with an empty key or value. Keys and
// values are trimmed and one layer of matching quotes is removed.
func ParseSimple(data []byte) map[string]string {
	values := make(map[string]string)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" || val == "" {
			continue
		}

		values[key] = unquote(val)
	}

	return values
}

func unquote(val string) string {
	if len(val) < 2 {
		return val
	}
	first, last := val[0], val[len(val)-1]
	if first == last && (first == '"' || first == '\'') {
		return val[1 : len(val)-1]
	}
	return val
}

// Read parses path with full dotenv syntax. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Read(fs afero.Fs, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dotenv file: %w", err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dotenv file %s: %w", path, err)
	}
	return values, nil
}
