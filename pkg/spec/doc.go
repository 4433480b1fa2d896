/*
Package spec provides typed field specifications for environment variables.

A specification describes one expected variable: its semantic kind, how a raw
string is validated and parsed, an optional default, optional permitted
choices and whether the variable is required. Specifications are built once
when a schema is declared and are never mutated afterwards.

Basic usage:

	schema := spec.Schema{
	    "PORT":         spec.Port(spec.PortConfig{Default: spec.Ptr(8080)}),
	    "MODE":         spec.Str(spec.StrConfig{Choices: []string{"dev", "prod"}, Default: spec.Ptr("dev")}),
	    "DATABASE_URL": spec.URL(spec.URLConfig{Protocols: []string{"postgres"}}),
	    "TAGS":         spec.Array(spec.ArrayConfig[string]{Optional: true}),
	}

Builders:

	Str       string with optional length bounds and pattern
	Num       finite float64 with optional bounds and integer constraint
	Bool      true/false, 1/0, yes/no, y/n
	Port      integer in [0, 65535]
	URL       absolute URL, optionally restricted to protocols
	Email     local@domain.tld shaped address
	JSON      JSON document decoded into a Go type
	Date      calendar date or timestamp with optional bounds
	Array     separated list of trimmed strings
	ArrayOf   separated list with a per-item parser
	FilePath  path resolved to an absolute path, optionally required to exist
	Host      "localhost" or an RFC 1123 hostname
	UUID      RFC 4122 UUID
	Duration  Go duration string with optional bounds

Every builder marks the variable as required unless its config sets
Optional. A default is used whenever the variable is absent, regardless of
required-ness.

Email validation is intentionally approximate: it accepts any value of the
form local@domain.tld without whitespace and does not attempt full
RFC 5322 compliance.

Invariant:

For every specification, Validate(raw) returning true guarantees that
Parse(raw) succeeds.
*/
package spec
