package spec

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FilePathConfig configures a file path specification
type FilePathConfig struct {
	Default  *string
	Message  string
	Optional bool

	// MustExist requires the resolved path to exist
	MustExist bool

	// CanBeDir allows an existing path to be a directory
	CanBeDir bool

	// Fs is the filesystem existence checks run against; defaults to the OS
	Fs afero.Fs
}

// FilePath builds a specification for filesystem paths. Parsed values are
// absolute paths.
func FilePath(cfg ...FilePathConfig) *Spec[string] {
	c := firstConfig(cfg)

	fs := c.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	msg := "Expected a valid file path"
	if c.MustExist {
		msg += " that exists"
		if !c.CanBeDir {
			msg += " and is not a directory"
		}
	}

	validate := func(raw string) bool {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return false
		}
		if !c.MustExist {
			return true
		}
		info, err := fs.Stat(abs)
		if err != nil {
			return false
		}
		return c.CanBeDir || !info.IsDir()
	}

	return newSpec(KindFilePath,
		common[string]{def: c.Default, message: c.Message, optional: c.Optional},
		msg, validate, filepath.Abs, identity[string])
}
