// Command expand_jobs expands a job template into one manifest
// per latent dimension. Run without flags it reproduces the
// original sweep: meta_run_job.yaml over $NLATENTS into
// jobs/job-<n>.yaml for n in {4, 8, 12, 16, 24, 32}.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bjmiao/nrp-k8s-yaml/expander"
)

// intFlags implements flag.Value for a repeatable integer
// flag.
type intFlags []int

func (f *intFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, v := range *f {
		parts = append(parts, strconv.Itoa(v))
	}

	return strings.Join(parts, ",")
}

func (f *intFlags) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf(
			"incorrect value %q: %w", value, err,
		)
	}

	*f = append(*f, v)

	return nil
}

func run() error {
	const errCtx = "expand_jobs"

	var values intFlags

	templatePath := flag.String(
		"template", expander.DefaultTemplatePath,
		"job template file",
	)
	outputDir := flag.String(
		"output-dir", expander.DefaultOutputDir,
		"directory for generated manifests",
	)
	placeholder := flag.String(
		"placeholder", expander.DefaultPlaceholder,
		"token substituted by each value",
	)
	flag.Var(
		&values, "value",
		"parameter value (repeatable; default 4 8 12 16 24 32)",
	)

	flag.Parse()

	en := expander.Engine{
		TemplatePath: *templatePath,
		OutputDir:    *outputDir,
		Placeholder:  *placeholder,
		Values:       values,
	}

	n, err := en.Expand()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"expanded job template",
		"template", *templatePath,
		"output_dir", *outputDir,
		"files", n,
	)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
