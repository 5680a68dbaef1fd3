package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"

	"github.com/bjmiao/nrp-k8s-yaml/digester"
	"github.com/bjmiao/nrp-k8s-yaml/manifest"
	"github.com/bjmiao/nrp-k8s-yaml/submit"
)

// Variable placeholders in templates are written $(name).
const (
	startTag = "$("
	endTag   = ")"
)

// Config holds all settings for a batch generation run.
type Config struct {
	// TemplatePath is the job template containing $(name)
	// placeholders.
	TemplatePath string

	// OutputDir receives the generated files. Created if
	// absent.
	OutputDir string

	// Validate lints every rendered manifest (kind and
	// metadata.name on every document) before writing it.
	Validate bool

	// Digests records a .digest sidecar per output and counts
	// outputs unchanged since the previous run.
	Digests bool

	// Cleanup removes each output file after successful
	// submission.
	Cleanup bool

	// Submitter hands generated files to the cluster. Nil
	// means generate only.
	Submitter submit.Submitter
}

// Report summarizes a batch generation run.
type Report struct {
	// Generated lists the written file paths in generation
	// order.
	Generated []string `json:"generated"`

	// Submitted counts files accepted by the cluster.
	Submitted int `json:"submitted"`

	// Skipped counts files whose job already existed.
	Skipped int `json:"skipped"`

	// Unchanged counts outputs identical to the previous run
	// (digest tracking only).
	Unchanged int `json:"unchanged"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	const errCtx = "writing report"

	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	payload = append(payload, '\n')

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Run renders one output file per combination, in order, and
// optionally submits each to the cluster. A job that already
// exists is skipped; any other error aborts the run. The
// returned report is valid even on error and covers the files
// processed before the failure.
func Run(
	ctx context.Context,
	cfg Config,
	combos []Combination,
) (*Report, error) {
	const errCtx = "generating job batch"

	rep := &Report{}

	if len(combos) == 0 {
		return rep, fmt.Errorf(
			"%s: no combinations", errCtx,
		)
	}

	tpl, err := os.ReadFile(cfg.TemplatePath) //nolint:gosec // path from CLI flag
	if err != nil {
		return rep, fmt.Errorf(
			"%s: reading template: %w", errCtx, err,
		)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "batch_job"
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf(
			"%s: creating output dir: %w",
			errCtx, err,
		)
	}

	for i, combo := range combos {
		outPath := filepath.Join(
			outDir, FileName(combo),
		)

		if err := generateOne(
			ctx, cfg, rep,
			string(tpl), combo, outPath,
		); err != nil {
			return rep, fmt.Errorf(
				"%s: job %d/%d: %w",
				errCtx, i+1, len(combos), err,
			)
		}

		slog.Info(
			"generated job",
			"index", i+1,
			"total", len(combos),
			"file", outPath,
		)
	}

	return rep, nil
}

// generateOne renders, validates, writes, digest-tracks, and
// submits a single combination.
func generateOne(
	ctx context.Context,
	cfg Config,
	rep *Report,
	tpl string,
	combo Combination,
	outPath string,
) error {
	const errCtx = "generating job file"

	tplCtx := make(map[string]interface{}, len(combo))
	for name, value := range combo {
		tplCtx[name] = value
	}

	// Unknown $(name) placeholders pass through unchanged.
	rendered := fasttemplate.ExecuteStringStd(
		tpl, startTag, endTag, tplCtx,
	)

	if cfg.Validate {
		if _, err := manifest.Lint(
			strings.NewReader(rendered),
		); err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	//nolint:gosec // output path derives from the options file
	err := os.WriteFile(
		outPath, []byte(rendered), 0o666,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: writing %s: %w",
			errCtx, outPath, err,
		)
	}

	rep.Generated = append(rep.Generated, outPath)

	if cfg.Digests {
		// The sidecar still holds the previous run's digest
		// here, so a match means this output is unchanged.
		matched, err := digester.Matches(outPath)
		if err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if matched {
			rep.Unchanged++
		}

		if err := digester.Save(outPath); err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	if cfg.Submitter == nil {
		return nil
	}

	submitErr := cfg.Submitter.Submit(ctx, outPath)

	if errors.Is(submitErr, submit.ErrAlreadyExists) {
		slog.Info(
			"job already exists, skipping",
			"file", outPath,
		)

		rep.Skipped++

		return nil
	}

	if submitErr != nil {
		return fmt.Errorf(
			"%s: %w", errCtx, submitErr,
		)
	}

	rep.Submitted++

	if cfg.Cleanup {
		if err := os.Remove(outPath); err != nil {
			return fmt.Errorf(
				"%s: cleanup %s: %w",
				errCtx, outPath, err,
			)
		}

		if cfg.Digests {
			// Best effort: the sidecar is useless without
			// its file.
			_ = os.Remove(outPath + ".digest")
		}

		slog.Info("cleaned up", "file", outPath)
	}

	return nil
}
