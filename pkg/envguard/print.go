package envguard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/envguard/pkg/spec"
	"golang.org/x/term"
)

const statusBanner = "===== Environment Variables Status ====="

// PrintStatus writes a human-readable status report to opts.Output
// (stdout by default)
func PrintStatus(schema spec.Schema, opts Options) error {
	return FprintStatus(opts.output(), schema, opts)
}

// FprintStatus writes a human-readable status report to w
func FprintStatus(w io.Writer, schema spec.Schema, opts Options) error {
	r, err := BuildReport(schema, opts)
	if err != nil {
		return err
	}
	if !opts.ShowSecrets {
		r = r.Redacted()
	}

	_, err = io.WriteString(w, RenderStatus(r, !opts.NoColor && IsTerminal(w)))
	return err
}

// RenderStatus renders a report as the status text: an errors section (or a
// confirmation that everything is valid), warnings when there are any, and a
// summary of every schema variable.
func RenderStatus(r *Report, colored bool) string {
	var (
		red    = newColor(colored, color.FgRed, color.Bold)
		green  = newColor(colored, color.FgGreen, color.Bold)
		yellow = newColor(colored, color.FgYellow, color.Bold)
		cyan   = newColor(colored, color.FgCyan, color.Bold)
		faint  = newColor(colored, color.Faint)
	)

	var b strings.Builder
	b.WriteString("\n" + statusBanner + "\n")

	if len(r.Errors) > 0 {
		b.WriteString("\n" + red.Sprint("ERRORS:") + "\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	} else {
		b.WriteString("\n" + green.Sprint("All required environment variables are valid.") + "\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n" + yellow.Sprint("WARNINGS:") + "\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	b.WriteString("\n" + cyan.Sprint("ENVIRONMENT SUMMARY:") + "\n")
	for _, v := range r.Variables {
		if v.Value == nil {
			fmt.Fprintf(&b, "  - %s: %s\n", v.Name, faint.Sprint("<missing>"))
			continue
		}
		fmt.Fprintf(&b, "  - %s: %s\n", v.Name, formatValue(v.Value))
	}

	b.WriteString("\n" + strings.Repeat("=", len(statusBanner)) + "\n\n")
	return b.String()
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
