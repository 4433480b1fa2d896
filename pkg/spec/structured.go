package spec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JSONConfig configures a JSON specification decoding into T
type JSONConfig[T any] struct {
	Default  *T
	Message  string
	Optional bool

	// Schema, when set, must accept the decoded value
	Schema func(T) bool
}

// JSON builds a specification for JSON documents decoded into T
func JSON[T any](cfg ...JSONConfig[T]) *Spec[T] {
	c := firstConfig(cfg)

	parse := func(raw string) (T, error) {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return v, err
		}
		return v, nil
	}
	validate := func(raw string) bool {
		v, err := parse(raw)
		if err != nil {
			return false
		}
		return c.Schema == nil || c.Schema(v)
	}
	format := func(v T) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}

	return newSpec(KindJSON,
		common[T]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid JSON string", validate, parse, format)
}

// dateLayouts are tried in order; layouts without a zone are read as UTC
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// DateConfig configures a date specification
type DateConfig struct {
	Default  *time.Time
	Message  string
	Optional bool

	// Min and Max are inclusive bounds
	Min *time.Time
	Max *time.Time
}

// Date builds a specification for calendar dates and timestamps
func Date(cfg ...DateConfig) *Spec[time.Time] {
	c := firstConfig(cfg)

	validate := func(raw string) bool {
		t, err := parseDate(raw)
		if err != nil {
			return false
		}
		if c.Min != nil && t.Before(*c.Min) {
			return false
		}
		if c.Max != nil && t.After(*c.Max) {
			return false
		}
		return true
	}
	format := func(t time.Time) string {
		return t.Format(time.RFC3339Nano)
	}

	return newSpec(KindDate,
		common[time.Time]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid date string", validate, parseDate, format)
}

func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", raw)
}

// ArrayConfig configures a delimited list specification
type ArrayConfig[T any] struct {
	Default  *[]T
	Message  string
	Optional bool

	// Separator splits the raw value; defaults to ","
	Separator string

	// ItemValidator, when set, must accept every trimmed item
	ItemValidator func(string) bool
}

// Array builds a specification for separated lists of strings. Items are
// trimmed and empty items dropped; an empty list is valid.
func Array(cfg ...ArrayConfig[string]) *Spec[[]string] {
	return ArrayOf(identityParse, cfg...)
}

// ArrayOf builds a list specification whose items are converted by parse.
// A value is valid only when every item passes the item validator and parses.
func ArrayOf[T any](parse func(string) (T, error), cfg ...ArrayConfig[T]) *Spec[[]T] {
	if parse == nil {
		panic("spec: ArrayOf requires an item parser")
	}
	c := firstConfig(cfg)

	sep := c.Separator
	if sep == "" {
		sep = ","
	}

	msg := "Expected a comma-separated list"
	if sep != "," {
		msg = fmt.Sprintf("Expected a list separated by %q", sep)
	}

	validate := func(raw string) bool {
		for _, item := range splitItems(raw, sep) {
			if c.ItemValidator != nil && !c.ItemValidator(item) {
				return false
			}
			if _, err := parse(item); err != nil {
				return false
			}
		}
		return true
	}
	parseList := func(raw string) ([]T, error) {
		items := splitItems(raw, sep)
		out := make([]T, 0, len(items))
		for _, item := range items {
			v, err := parse(item)
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", item, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
	format := func(items []T) string {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	}

	return newSpec(KindArray,
		common[[]T]{def: c.Default, message: c.Message, optional: c.Optional},
		msg, validate, parseList, format)
}

func splitItems(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// UUIDConfig configures a UUID specification
type UUIDConfig struct {
	Default  *uuid.UUID
	Message  string
	Optional bool
}

// UUID builds a specification for RFC 4122 UUIDs
func UUID(cfg ...UUIDConfig) *Spec[uuid.UUID] {
	c := firstConfig(cfg)

	validate := func(raw string) bool {
		_, err := uuid.Parse(raw)
		return err == nil
	}

	return newSpec(KindUUID,
		common[uuid.UUID]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid UUID", validate, uuid.Parse, uuid.UUID.String)
}

// DurationConfig configures a duration specification
type DurationConfig struct {
	Default  *time.Duration
	Message  string
	Optional bool

	Min *time.Duration
	Max *time.Duration
}

// Duration builds a specification for Go duration strings such as "1m30s"
func Duration(cfg ...DurationConfig) *Spec[time.Duration] {
	c := firstConfig(cfg)

	msg := "Expected a duration (e.g. 30s, 5m)"
	if c.Min != nil {
		msg += " >= " + c.Min.String()
	}
	if c.Max != nil {
		msg += " <= " + c.Max.String()
	}

	validate := func(raw string) bool {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return false
		}
		if c.Min != nil && d < *c.Min {
			return false
		}
		if c.Max != nil && d > *c.Max {
			return false
		}
		return true
	}

	return newSpec(KindDuration,
		common[time.Duration]{def: c.Default, message: c.Message, optional: c.Optional},
		msg, validate, time.ParseDuration, time.Duration.String)
}
