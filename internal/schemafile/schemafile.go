// Package schemafile decodes schema documents used by the envguard command
// into a spec.Schema.
//
// A document lists variables by name:
//
//	variables:
//	  PORT: { type: port, default: 8080 }
//	  MODE: { type: string, choices: [dev, prod], default: dev }
//	  DATABASE_URL: { type: url, protocols: [postgres, postgresql] }
//	  TAGS: { type: array, separator: ";", optional: true }
//
// YAML (.yaml, .yml) and JSON (.json) documents are supported. Defaults and
// choices are environment text parsed by the field they belong to.
package schemafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sonemaro/envguard/pkg/spec"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a schema document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is the decoded form of a schema file
type Document struct {
	Variables map[string]Entry `yaml:"variables" json:"variables" validate:"required,min=1"`
}

// Entry describes one variable
type Entry struct {
	Type     string `yaml:"type" json:"type" validate:"required,oneof=string number boolean port url email json date array filePath host uuid duration"`
	Default  any    `yaml:"default" json:"default"`
	Choices  []any  `yaml:"choices" json:"choices"`
	Optional bool   `yaml:"optional" json:"optional"`
	Message  string `yaml:"message" json:"message"`

	MinLength int    `yaml:"min_length" json:"min_length" validate:"gte=0"`
	MaxLength int    `yaml:"max_length" json:"max_length" validate:"gte=0"`
	Pattern   string `yaml:"pattern" json:"pattern"`

	Min     *float64 `yaml:"min" json:"min"`
	Max     *float64 `yaml:"max" json:"max"`
	Integer bool     `yaml:"integer" json:"integer"`

	Protocols []string `yaml:"protocols" json:"protocols" validate:"dive,required"`
	Separator string   `yaml:"separator" json:"separator"`

	MustExist bool `yaml:"must_exist" json:"must_exist"`
	CanBeDir  bool `yaml:"can_be_dir" json:"can_be_dir"`
}

// options that only make sense for some kinds
var kindOptions = map[spec.Kind][]string{
	spec.KindString:   {"min_length", "max_length", "pattern"},
	spec.KindNumber:   {"min", "max", "integer"},
	spec.KindURL:      {"protocols"},
	spec.KindArray:    {"separator"},
	spec.KindFilePath: {"must_exist", "can_be_dir"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// FormatOf picks the document format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported schema format %q: use .yaml, .yml or .json", filepath.Ext(path))
	}
}

// Load reads and decodes the schema document at path. Existence checks of
// filePath fields run against fs.
func Load(fs afero.Fs, path string) (spec.Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	schema, err := doc.Schema(fs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// Decode parses a document. Unknown fields are rejected.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("invalid YAML schema: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("invalid JSON schema: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported schema format: %s", format)
	}

	if err := validate.Struct(doc); err != nil {
		return Document{}, describe("schema", err)
	}
	return doc, nil
}

// Schema builds the field specifications. Every invalid entry is reported.
func (d Document) Schema(fs afero.Fs) (spec.Schema, error) {
	names := make([]string, 0, len(d.Variables))
	for name := range d.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	schema := make(spec.Schema, len(names))
	var errs []error
	for _, name := range names {
		if name == "" || strings.Contains(name, "=") {
			errs = append(errs, fmt.Errorf("invalid variable name %q", name))
			continue
		}
		field, err := d.Variables[name].Field(fs)
		if err != nil {
			errs = append(errs, fmt.Errorf("variable %s: %w", name, err))
			continue
		}
		schema[name] = field
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return schema, nil
}

// Field builds the specification an entry describes
func (e Entry) Field(fs afero.Fs) (spec.Field, error) {
	if err := validate.Struct(e); err != nil {
		return nil, describe("entry", err)
	}

	kind := spec.Kind(e.Type)
	if err := e.checkOptions(kind); err != nil {
		return nil, err
	}

	switch kind {
	case spec.KindString:
		cfg := spec.StrConfig{
			Message:   e.Message,
			Optional:  e.Optional,
			MinLength: e.MinLength,
			MaxLength: e.MaxLength,
		}
		if e.Pattern != "" {
			re, err := regexp.Compile(e.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern: %w", err)
			}
			cfg.Pattern = re
		}
		return finish(spec.Str(cfg), e)
	case spec.KindNumber:
		return finish(spec.Num(spec.NumConfig{
			Message:  e.Message,
			Optional: e.Optional,
			Min:      e.Min,
			Max:      e.Max,
			Integer:  e.Integer,
		}), e)
	case spec.KindBoolean:
		return finish(spec.Bool(spec.BoolConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindPort:
		return finish(spec.Port(spec.PortConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindURL:
		return finish(spec.URL(spec.URLConfig{
			Message:   e.Message,
			Optional:  e.Optional,
			Protocols: e.Protocols,
		}), e)
	case spec.KindEmail:
		return finish(spec.Email(spec.EmailConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindJSON:
		return finish(spec.JSON(spec.JSONConfig[any]{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindDate:
		return finish(spec.Date(spec.DateConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindArray:
		return finish(spec.Array(spec.ArrayConfig[string]{
			Message:   e.Message,
			Optional:  e.Optional,
			Separator: e.Separator,
		}), e)
	case spec.KindFilePath:
		return finish(spec.FilePath(spec.FilePathConfig{
			Message:   e.Message,
			Optional:  e.Optional,
			MustExist: e.MustExist,
			CanBeDir:  e.CanBeDir,
			Fs:        fs,
		}), e)
	case spec.KindHost:
		return finish(spec.Host(spec.HostConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindUUID:
		return finish(spec.UUID(spec.UUIDConfig{Message: e.Message, Optional: e.Optional}), e)
	case spec.KindDuration:
		return finish(spec.Duration(spec.DurationConfig{Message: e.Message, Optional: e.Optional}), e)
	default:
		return nil, fmt.Errorf("unknown type %q", e.Type)
	}
}

// checkOptions rejects kind-specific options used with another kind
func (e Entry) checkOptions(kind spec.Kind) error {
	set := map[string]bool{
		"min_length": e.MinLength != 0,
		"max_length": e.MaxLength != 0,
		"pattern":    e.Pattern != "",
		"min":        e.Min != nil,
		"max":        e.Max != nil,
		"integer":    e.Integer,
		"protocols":  len(e.Protocols) > 0,
		"separator":  e.Separator != "",
		"must_exist": e.MustExist,
		"can_be_dir": e.CanBeDir,
	}
	for _, opt := range kindOptions[kind] {
		delete(set, opt)
	}

	var misplaced []string
	for opt, ok := range set {
		if ok {
			misplaced = append(misplaced, opt)
		}
	}
	if len(misplaced) == 0 {
		return nil
	}
	sort.Strings(misplaced)
	return fmt.Errorf("%s not supported for type %s", strings.Join(misplaced, ", "), kind)
}

func finish[T any](s *spec.Spec[T], e Entry) (spec.Field, error) {
	var err error
	if len(e.Choices) > 0 {
		texts := make([]string, len(e.Choices))
		for i, c := range e.Choices {
			if texts[i], err = textOf(c); err != nil {
				return nil, fmt.Errorf("invalid choice: %w", err)
			}
		}
		if s, err = s.WithChoiceTexts(texts...); err != nil {
			return nil, err
		}
	}

	if e.Default != nil {
		text, err := textOf(e.Default)
		if err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
		if s, err = s.WithDefaultText(text); err != nil {
			return nil, err
		}
		if def, _ := s.Default(); !s.Allows(def) {
			return nil, fmt.Errorf("default %q is not one of the choices", text)
		}
	}
	return s, nil
}

// textOf renders a decoded scalar as environment text
func textOf(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case nil:
		return "", errors.New("null value")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func describe(what string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must not be empty", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("unknown %s %q", fe.Field(), fe.Value()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid %s: %s", what, strings.Join(msgs, "; "))
}
