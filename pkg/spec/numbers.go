package spec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumConfig configures a number specification
type NumConfig struct {
	Default  *float64
	Choices  []float64
	Message  string
	Optional bool

	Min     *float64
	Max     *float64
	Integer bool
}

// Num builds a specification for finite numbers
func Num(cfg ...NumConfig) *Spec[float64] {
	c := firstConfig(cfg)

	msg := "Expected a "
	if c.Integer {
		msg += "integer "
	}
	msg += "number"
	if c.Min != nil {
		msg += " >= " + formatFloat(*c.Min)
	}
	if c.Max != nil {
		msg += " <= " + formatFloat(*c.Max)
	}

	validate := func(raw string) bool {
		f, err := parseFinite(raw)
		if err != nil {
			return false
		}
		if c.Min != nil && f < *c.Min {
			return false
		}
		if c.Max != nil && f > *c.Max {
			return false
		}
		if c.Integer && f != math.Trunc(f) {
			return false
		}
		return true
	}

	return newSpec(KindNumber,
		common[float64]{def: c.Default, choices: c.Choices, message: c.Message, optional: c.Optional},
		msg, validate, parseFinite, formatFloat)
}

// PortConfig configures a port specification
type PortConfig struct {
	Default  *int
	Message  string
	Optional bool
}

// Port builds a specification for TCP/UDP port numbers in [0, 65535]
func Port(cfg ...PortConfig) *Spec[int] {
	c := firstConfig(cfg)

	parse := func(raw string) (int, error) {
		f, err := parseFinite(raw)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || f < 0 || f > 65535 {
			return 0, fmt.Errorf("port out of range: %s", raw)
		}
		return int(f), nil
	}

	validate := func(raw string) bool {
		_, err := parse(raw)
		return err == nil
	}

	return newSpec(KindPort,
		common[int]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a valid port number (0-65535)", validate, parse, strconv.Itoa)
}

// BoolConfig configures a boolean specification
type BoolConfig struct {
	Default  *bool
	Message  string
	Optional bool
}

var boolValues = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"0":     false,
	"no":    false,
	"n":     false,
}

// Bool builds a boolean specification. Matching is case-sensitive.
func Bool(cfg ...BoolConfig) *Spec[bool] {
	c := firstConfig(cfg)

	validate := func(raw string) bool {
		_, ok := boolValues[raw]
		return ok
	}
	parse := func(raw string) (bool, error) {
		v, ok := boolValues[raw]
		if !ok {
			return false, fmt.Errorf("invalid boolean: %q", raw)
		}
		return v, nil
	}

	return newSpec(KindBoolean,
		common[bool]{def: c.Default, message: c.Message, optional: c.Optional},
		"Expected a boolean (true/false, 1/0, yes/no, y/n)", validate, parse, strconv.FormatBool)
}

// parseFinite parses a trimmed decimal number, rejecting NaN and infinities
func parseFinite(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number is not finite: %s", raw)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
