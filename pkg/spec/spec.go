package spec

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Kind identifies the semantic type of a field
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindPort     Kind = "port"
	KindURL      Kind = "url"
	KindEmail    Kind = "email"
	KindJSON     Kind = "json"
	KindDate     Kind = "date"
	KindArray    Kind = "array"
	KindFilePath Kind = "filePath"
	KindHost     Kind = "host"
	KindUUID     Kind = "uuid"
	KindDuration Kind = "duration"
)

// Kinds lists every kind a builder exists for
var Kinds = []Kind{
	KindString, KindNumber, KindBoolean, KindPort, KindURL, KindEmail, KindJSON,
	KindDate, KindArray, KindFilePath, KindHost, KindUUID, KindDuration,
}

// Field is the type-erased view of a specification consumed by the
// validation engine.
type Field interface {
	// Kind returns the semantic type tag
	Kind() Kind

	// Required reports whether an absent variable without default is an error
	Required() bool

	// Message explains why a value failed validation
	Message() string

	// HasDefault reports whether a default value is configured
	HasDefault() bool

	// DefaultValue returns the parsed default, or nil when none is set
	DefaultValue() any

	// DefaultText renders the default back to environment text
	DefaultText() string

	// ChoiceTexts renders the permitted choices as environment text
	ChoiceTexts() []string

	// Allows reports whether a parsed value is one of the permitted choices.
	// It always returns true when no choices are configured.
	Allows(v any) bool

	// Validate checks a raw environment value
	Validate(raw string) bool

	// Parse converts a raw environment value into its typed form
	Parse(raw string) (any, error)
}

// Spec is an immutable field specification producing values of type T
type Spec[T any] struct {
	kind     Kind
	validate func(string) bool
	parse    func(string) (T, error)
	format   func(T) string
	def      *T
	choices  []T
	required bool
	message  string
}

// common holds the options shared by every builder
type common[T any] struct {
	def      *T
	choices  []T
	message  string
	optional bool
}

func newSpec[T any](
	kind Kind,
	c common[T],
	defaultMessage string,
	validate func(string) bool,
	parse func(string) (T, error),
	format func(T) string,
) *Spec[T] {
	s := &Spec[T]{
		kind:     kind,
		validate: validate,
		parse:    parse,
		format:   format,
		required: !c.optional,
		message:  c.message,
	}
	if s.message == "" {
		s.message = defaultMessage
	}
	if c.def != nil {
		d := *c.def
		s.def = &d
	}
	if len(c.choices) > 0 {
		s.choices = append([]T(nil), c.choices...)
	}
	return s
}

func (s *Spec[T]) Kind() Kind      { return s.kind }
func (s *Spec[T]) Required() bool  { return s.required }
func (s *Spec[T]) Message() string { return s.message }

func (s *Spec[T]) HasDefault() bool { return s.def != nil }

func (s *Spec[T]) DefaultValue() any {
	if s.def == nil {
		return nil
	}
	return *s.def
}

// Default returns the typed default value
func (s *Spec[T]) Default() (T, bool) {
	if s.def == nil {
		var zero T
		return zero, false
	}
	return *s.def, true
}

func (s *Spec[T]) DefaultText() string {
	if s.def == nil {
		return ""
	}
	return s.format(*s.def)
}

// Choices returns a copy of the permitted values
func (s *Spec[T]) Choices() []T {
	return append([]T(nil), s.choices...)
}

func (s *Spec[T]) ChoiceTexts() []string {
	if len(s.choices) == 0 {
		return nil
	}
	texts := make([]string, len(s.choices))
	for i, c := range s.choices {
		texts[i] = s.format(c)
	}
	return texts
}

func (s *Spec[T]) Allows(v any) bool {
	if len(s.choices) == 0 {
		return true
	}
	tv, ok := v.(T)
	if !ok {
		return false
	}
	for _, c := range s.choices {
		if reflect.DeepEqual(c, tv) {
			return true
		}
	}
	return false
}

func (s *Spec[T]) Validate(raw string) bool {
	return s.validate(raw)
}

func (s *Spec[T]) Parse(raw string) (any, error) {
	v, err := s.parse(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ParseValue converts a raw value without erasing its type
func (s *Spec[T]) ParseValue(raw string) (T, error) {
	return s.parse(raw)
}

// WithDefaultText returns a copy of the specification whose default is the
// given environment text, parsed by the specification itself.
func (s *Spec[T]) WithDefaultText(raw string) (*Spec[T], error) {
	v, err := s.parseChecked(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid default %q: %w", raw, err)
	}
	cp := *s
	cp.def = &v
	return &cp, nil
}

// WithChoiceTexts returns a copy of the specification restricted to the
// given choices, each parsed by the specification itself.
func (s *Spec[T]) WithChoiceTexts(raws ...string) (*Spec[T], error) {
	choices := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := s.parseChecked(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid choice %q: %w", raw, err)
		}
		choices = append(choices, v)
	}
	cp := *s
	cp.choices = choices
	return &cp, nil
}

func (s *Spec[T]) parseChecked(raw string) (T, error) {
	if !s.validate(raw) {
		var zero T
		return zero, errors.New(s.message)
	}
	return s.parse(raw)
}

// Schema maps variable names to their specifications
type Schema map[string]Field

// Keys returns the schema's variable names in lexicographic order
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ptr returns a pointer to v, for use in builder configs
func Ptr[T any](v T) *T {
	return &v
}

func firstConfig[C any](cfg []C) C {
	var c C
	if len(cfg) > 0 {
		c = cfg[0]
	}
	return c
}
