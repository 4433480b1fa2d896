/*
Package logger provides structured logging for envguard. It wraps uber-go/zap
behind a small interface with verbosity levels, so the validation engine and
the CLI can log without depending on zap directly.

Basic Usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 0,  // Default level (INFO)
	})

	log.Info("Checking environment")
	log.Debug("Loaded schema")      // Only shown with verbosity >= 1
	log.Trace("Parsed PORT=8080")   // Only shown with verbosity >= 2

Verbosity Levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Structured Logging:

The validation engine attaches the variable name to every warning and error
it logs:

	log.WithFields(logger.Fields{
	    "variable": "PORT",
	}).Warn("Using default value for PORT: 3000")

Output Example (JSON):

	{
	    "level": "warn",
	    "ts": "2024-01-20T15:04:05.000Z",
	    "message": "Using default value for PORT: 3000",
	    "variable": "PORT"
	}

Formats:

FormatJSON (default) suits log collectors. FormatConsole writes the same
entries as tab-separated text for interactive use.

Silence:

Nop returns a Logger that drops every entry. Library callers that do not
want engine output pass it explicitly; the engine only logs when verbose
mode is enabled anyway.

Thread Safety:

The logger is safe for concurrent use by multiple goroutines.
*/
package logger
