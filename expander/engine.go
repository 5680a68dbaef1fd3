package expander

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults matching the original expansion script.
const (
	DefaultTemplatePath = "meta_run_job.yaml"
	DefaultOutputDir    = "jobs"
	DefaultPlaceholder  = "$NLATENTS"
)

// DefaultValues returns the latent dimension sweep expanded
// when Engine.Values is empty.
func DefaultValues() []int {
	return []int{4, 8, 12, 16, 24, 32}
}

// Engine expands a job template once per parameter value.
// Zero-value fields fall back to the defaults above.
type Engine struct {
	// TemplatePath is the template file to read.
	TemplatePath string

	// OutputDir receives one job-<value>.yaml per value. It is
	// created if absent, parents included.
	OutputDir string

	// Placeholder is the literal token substituted in the
	// template. Substitution is plain text replacement, not a
	// templating language: no escaping, no recursive expansion.
	Placeholder string

	// Values are the parameter values, expanded in order.
	Values []int
}

// OutputFileName returns the name of the generated file for a
// parameter value.
func OutputFileName(value int) string {
	return fmt.Sprintf("job-%d.yaml", value)
}

// Expand reads the template, substitutes the placeholder for
// each value, and writes one output file per value. Existing
// output files are overwritten. It returns the number of files
// written; on error it aborts at the failing value, so the
// count is also how many files were written before the
// failure.
//
// A template with zero occurrences of the placeholder is not
// an error: the outputs are then byte-identical copies of the
// template.
func (en *Engine) Expand() (int, error) {
	const errCtx = "expanding job template"

	tplPath := en.TemplatePath
	if tplPath == "" {
		tplPath = DefaultTemplatePath
	}

	outDir := en.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	placeholder := en.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	values := en.Values
	if len(values) == 0 {
		values = DefaultValues()
	}

	// The template is read before anything is written so a
	// bad template path produces zero output files.
	tpl, err := os.ReadFile(tplPath) //nolint:gosec // path from configuration
	if err != nil {
		kind := ErrTemplateUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = ErrTemplateNotFound
		}

		return 0, fmt.Errorf(
			"%s: %w: %w", errCtx, kind, err,
		)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf(
			"%s: %w: %w",
			errCtx, ErrDirectoryCreate, err,
		)
	}

	written := 0

	for _, value := range values {
		content := strings.ReplaceAll(
			string(tpl),
			placeholder,
			strconv.Itoa(value),
		)

		outPath := filepath.Join(
			outDir, OutputFileName(value),
		)

		//nolint:gosec // output path from configuration
		err := os.WriteFile(
			outPath, []byte(content), 0o666,
		)
		if err != nil {
			return written, fmt.Errorf(
				"%s: value %d: %w: %w",
				errCtx, value, ErrFileWrite, err,
			)
		}

		written++
	}

	return written, nil
}
