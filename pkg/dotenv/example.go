package dotenv

import (
	"fmt"
	"strings"

	"github.com/sonemaro/envguard/pkg/spec"
	"github.com/spf13/afero"
)

const exampleHeader = "# Environment Variables Example\n\n"

// RenderExample renders an example env file for schema. Required variables
// are written as KEY=, optional ones commented out as # KEY=. Each line then
// carries the default, the first choice, or the kind as a hint.
func RenderExample(schema spec.Schema) string {
	var b strings.Builder
	b.WriteString(exampleHeader)

	for _, key := range schema.Keys() {
		field := schema[key]

		if field.Required() {
			b.WriteString(key + "=")
		} else {
			b.WriteString("# " + key + "=")
		}

		choices := field.ChoiceTexts()
		switch {
		case field.HasDefault():
			b.WriteString(field.DefaultText() + " # Default value")
		case len(choices) > 0:
			b.WriteString(choices[0] + " # Choices: " + strings.Join(choices, ", "))
		default:
			b.WriteString("# " + string(field.Kind()))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// WriteExample writes RenderExample(schema) to path, replacing any existing file
func WriteExample(fs afero.Fs, schema spec.Schema, path string) error {
	if err := afero.WriteFile(fs, path, []byte(RenderExample(schema)), 0644); err != nil {
		return fmt.Errorf("write example file: %w", err)
	}
	return nil
}
