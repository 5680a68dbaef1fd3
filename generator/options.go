package generator

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadOptions reads a variable-options file: a YAML mapping
// of variable names to lists of values. Scalar values are
// converted to their string form, since substitution is
// textual.
func LoadOptions(path string) (map[string][]string, error) {
	const errCtx = "loading variable options"

	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var parsed map[string][]interface{}

	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf(
			"%s: decoding yaml: %w", errCtx, err,
		)
	}

	if len(parsed) == 0 {
		return nil, fmt.Errorf(
			"%s: no variables defined", errCtx,
		)
	}

	opts := make(map[string][]string, len(parsed))

	for name, values := range parsed {
		if len(values) == 0 {
			return nil, fmt.Errorf(
				"%s: variable %s has no values",
				errCtx, name,
			)
		}

		strs := make([]string, 0, len(values))
		for _, v := range values {
			strs = append(strs, fmt.Sprint(v))
		}

		opts[name] = strs
	}

	return opts, nil
}
