package envguard

import (
	"github.com/sonemaro/envguard/pkg/env"
	"github.com/sonemaro/envguard/pkg/spec"
)

// Merge validates the environment with overlay applied on top of it. Overlay
// values are converted to text (nil values are skipped) and written into
// opts.Env for the duration of the call only; the store is restored to its
// exact prior contents afterwards, whether Clean succeeds, fails or panics.
func Merge(schema spec.Schema, overlay map[string]any, opts Options) (Config, error) {
	store := opts.store()
	opts.Env = store

	values := make(map[string]string, len(overlay))
	for k, v := range overlay {
		if v == nil {
			continue
		}
		values[k] = stringify(v)
	}

	var cfg Config
	err := env.Overlay(store, values, func() error {
		var err error
		cfg, err = Clean(schema, opts)
		return err
	})
	return cfg, err
}
