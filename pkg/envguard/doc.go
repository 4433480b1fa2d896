/*
Package envguard validates a process's environment variables against a
declarative schema and returns a typed, cleaned configuration.

A schema maps variable names to field specifications built with package
spec:

	schema := spec.Schema{
	    "PORT":         spec.Port(spec.PortConfig{Default: spec.Ptr(8080)}),
	    "NODE_ENV":     spec.Str(spec.StrConfig{Choices: []string{"development", "production"}}),
	    "DATABASE_URL": spec.URL(spec.URLConfig{Protocols: []string{"postgres"}}),
	    "FEATURES":     spec.Array(spec.ArrayConfig[string]{Optional: true}),
	}

	cfg, err := envguard.Clean(schema, envguard.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	port := cfg.Int("PORT")

Validation Rules:

Each schema variable is resolved independently, in sorted key order:

	absent, default set     -> default used, warning recorded
	absent, required        -> "Missing required environment variable: KEY"
	absent, optional        -> omitted from the config
	present, fails validate -> "Invalid value "v" for environment variable KEY: message"
	present, not a choice   -> "Invalid value "v" ... Allowed values: a, b"
	present, valid          -> parsed value stored

Every problem is collected; a pass never stops at the first one. Variables
not named in the schema are copied into the config as raw strings, or in
strict mode reported as warnings and left out.

Entry Points:

	Evaluate     one pass, returns config, errors and warnings together
	Clean        config or *ValidationError (partial config with ContinueOnError)
	Test         problem messages only
	BuildReport  structured report with per-variable status; never fails on validation
	PrintStatus  human-readable report, secrets masked
	Merge        Clean with temporary overrides applied to the store

Environment Sources:

Options.Env selects the store (the process environment by default, see
package env). Before validation a dotenv file (".env" by default) is read
and merged into a snapshot of the store; the store itself is never modified
by validation. Merge is the only operation that writes to the store, and it
restores it before returning.

Errors:

Missing and invalid variables are reported as *MissingError and
*InvalidError, which match ErrMissing and ErrInvalid with errors.Is. Clean
wraps them in a *ValidationError whose Unwrap exposes each one:

	var verr *envguard.ValidationError
	if errors.As(err, &verr) {
	    for _, msg := range verr.Messages() {
	        fmt.Println(msg)
	    }
	}
	if errors.Is(err, envguard.ErrMissing) {
	    // at least one required variable is unset
	}

Logging:

With Options.Verbose set, warnings are logged at warn level and problems at
error level through Options.Logger, each carrying a "variable" field.
*/
package envguard
