package spec

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hostPattern  = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// StrConfig configures a string specification
type StrConfig struct {
	Default  *string
	Choices  []string
	Message  string
	Optional bool

	// MinLength and MaxLength bound the length in characters; zero disables the bound
	MinLength int
	MaxLength int

	// Pattern, when set, must match the value
	Pattern *regexp.Regexp
}

// Str builds a string specification
func Str(cfg ...StrConfig) *Spec[string] {
	c := firstConfig(cfg)

	msg := "Expected a string"
	if c.MinLength > 0 {
		msg += fmt.Sprintf(" with min length %d", c.MinLength)
	}
	if c.MaxLength > 0 {
		msg += fmt.Sprintf(" with max length %d", c.MaxLength)
	}
	if c.Pattern != nil {
		msg += fmt.Sprintf(" matching pattern %s", c.Pattern)
	}

	validate := func(raw string) bool {
		n := utf8.RuneCountInString(raw)
		if c.MinLength > 0 && n < c.MinLength {
			return false
		}
		if c.MaxLength > 0 && n > c.MaxLength {
			return false
		}
		if c.Pattern != nil && !c.Pattern.MatchString(raw) {
			return false
		}
		return true
	}

	return newSpec(KindString,
		common[string]{def: c.Default, choices: c.Choices, message: c.Message, optional: c.Optional},
		msg, validate, identityParse, identity[string])
}

// URLConfig configures a URL specification
type URLConfig struct {
	Default  *string
	Message  string
	Optional bool

	// Protocols restricts the accepted schemes, e.g. "https"
	Protocols []string
}

// URL builds a specification for absolute URLs. The parsed value is the
// original string, not a normalized form.
func URL(cfg ...URLConfig) *Spec[string] {
	c := firstConfig(cfg)

	msg := "Expected a valid URL"
	if len(c.Protocols) > 0 {
		msg += " with protocol " + strings.Join(c.Protocols, " or ")
	}

	validate := func(raw string) bool {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			return false
		}
		if u.Host == "" && u.Opaque == "" && u.Path == "" {
			return false
		}
		if len(c.Protocols) == 0 {
			return true
		}
		for _, p := range c.Protocols {
			if strings.EqualFold(p, u.Scheme) {
				return true
			}
		}
		return false
	}

	return newSpec(KindURL,
		common[string]{def: c.Default, message: c.Message, optional: c.Optional},
		msg, validate, identityParse, identity[string])
}

// EmailConfig configures an email specification
type EmailConfig struct {
	Default  *string
	Message  string
	Optional bool
}

// Email builds a specification for local@domain.tld shaped addresses
func Email(cfg ...EmailConfig) *Spec[string] {
	c := firstConfig(cfg)
	return newSpec(KindEmail,
		common[string]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid email address", emailPattern.MatchString, identityParse, identity[string])
}

// HostConfig configures a hostname specification
type HostConfig struct {
	Default  *string
	Message  string
	Optional bool
}

// Host builds a specification accepting "localhost" or an RFC 1123 hostname
func Host(cfg ...HostConfig) *Spec[string] {
	c := firstConfig(cfg)

	validate := func(raw string) bool {
		if raw == "localhost" {
			return true
		}
		return hostPattern.MatchString(raw)
	}

	return newSpec(KindHost,
		common[string]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid hostname", validate, identityParse, identity[string])
}

func identity[T any](v T) T { return v }

func identityParse(raw string) (string, error) { return raw, nil }
