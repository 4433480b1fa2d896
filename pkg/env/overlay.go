package env

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// overlayMu serializes overlays so that concurrent callers never observe or
// restore each other's temporary values.
var overlayMu sync.Mutex

// Overlay writes values into store, runs fn, and restores the store to its
// prior contents afterwards. Restoration happens on every exit path,
// including a panic in fn, which is re-raised once the store is restored.
//
// Keys set by the overlay that did not exist before are unset; keys whose
// value changed are reset. Variables fn adds on its own are left alone.
func Overlay(store Store, values map[string]string, fn func() error) (err error) {
	overlayMu.Lock()
	defer overlayMu.Unlock()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type saved struct {
		value string
		ok    bool
	}
	previous := make(map[string]saved, len(keys))

	defer func() {
		var restoreErrs []error
		for _, k := range keys {
			p, touched := previous[k]
			if !touched {
				continue
			}
			var rerr error
			if p.ok {
				rerr = store.Set(k, p.value)
			} else {
				rerr = store.Unset(k)
			}
			if rerr != nil {
				restoreErrs = append(restoreErrs, rerr)
			}
		}
		if len(restoreErrs) > 0 {
			rerr := fmt.Errorf("restore environment: %w", errors.Join(restoreErrs...))
			err = errors.Join(err, rerr)
		}
	}()

	for _, k := range keys {
		v, ok := store.Lookup(k)
		previous[k] = saved{value: v, ok: ok}
		if err := store.Set(k, values[k]); err != nil {
			return fmt.Errorf("overlay %s: %w", k, err)
		}
	}

	return fn()
}
