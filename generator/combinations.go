package generator

import (
	"sort"
	"strings"
)

// Combination assigns one value to every variable.
type Combination map[string]string

// Combinations expands variable options into the full
// cartesian product. Variable names are visited in sorted
// order, so the result order is deterministic across runs.
func Combinations(
	opts map[string][]string,
) []Combination {
	if len(opts) == 0 {
		return nil
	}

	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}

	sort.Strings(names)

	result := []Combination{{}}

	for _, name := range names {
		next := make(
			[]Combination, 0,
			len(result)*len(opts[name]),
		)

		for _, base := range result {
			for _, value := range opts[name] {
				combo := make(
					Combination, len(base)+1,
				)
				for k, v := range base {
					combo[k] = v
				}

				combo[name] = value
				next = append(next, combo)
			}
		}

		result = next
	}

	return result
}

// FileName derives the output file name for a combination:
// job_<name>_<value>... over sorted variable names. Path
// separators in values are flattened so a value cannot escape
// the output directory.
func FileName(combo Combination) string {
	names := make([]string, 0, len(combo))
	for name := range combo {
		names = append(names, name)
	}

	sort.Strings(names)

	var sb strings.Builder

	sb.WriteString("job")

	for _, name := range names {
		sb.WriteByte('_')
		sb.WriteString(name)
		sb.WriteByte('_')
		sb.WriteString(flatten(combo[name]))
	}

	sb.WriteString(".yaml")

	return sb.String()
}

func flatten(value string) string {
	return strings.ReplaceAll(value, "/", "-")
}
