// Command generate_bunch_jobs renders a batch of Kubernetes
// job manifests from a template and a variable-options file,
// and submits them to the cluster unless told otherwise.
//
// Usage:
//
//	generate_bunch_jobs [flags] <template.yaml> <variables.yaml>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bjmiao/nrp-k8s-yaml/generator"
	"github.com/bjmiao/nrp-k8s-yaml/submit"
)

func run() error {
	const errCtx = "generate_bunch_jobs"

	outputDir := flag.String(
		"output-dir", "batch_job",
		"directory for generated job files",
	)
	noSubmit := flag.Bool(
		"no-submit", false,
		"generate files without submitting them",
	)
	cleanup := flag.Bool(
		"cleanup", false,
		"remove generated files after submission",
	)
	dryRun := flag.Bool(
		"dry-run", false,
		"print the combinations without creating files",
	)
	validate := flag.Bool(
		"validate", false,
		"lint rendered manifests before writing",
	)
	digests := flag.Bool(
		"digests", false,
		"record digest sidecars for generated files",
	)
	reportPath := flag.String(
		"report", "",
		"write a JSON run report to this file"+
			" (\"-\" for stdout)",
	)
	submitVia := flag.String(
		"submit-via", "kubectl",
		"submission transport: kubectl or api",
	)
	kubectlBin := flag.String(
		"kubectl", "",
		"kubectl binary name or path",
	)
	kubeconfig := flag.String(
		"kubeconfig", "",
		"kubeconfig path for api submission",
	)
	namespace := flag.String(
		"namespace", "",
		"fallback namespace for api submission",
	)

	flag.Parse()

	args := flag.Args()

	const expectedArgs = 2
	if len(args) != expectedArgs {
		return fmt.Errorf(
			"%s: usage: generate_bunch_jobs [flags]"+
				" <template.yaml> <variables.yaml>",
			errCtx,
		)
	}

	templatePath, variablesPath := args[0], args[1]

	opts, err := generator.LoadOptions(variablesPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	combos := generator.Combinations(opts)

	if *dryRun {
		fmt.Printf(
			"template: %s\ncombinations: %d\n",
			templatePath, len(combos),
		)

		for i, combo := range combos {
			fmt.Printf("  %d. %v\n", i+1, combo)
		}

		return nil
	}

	submitter, err := newSubmitter(
		*noSubmit, *submitVia,
		*kubectlBin, *kubeconfig, *namespace,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	rep, runErr := generator.Run(
		context.Background(),
		generator.Config{
			TemplatePath: templatePath,
			OutputDir:    *outputDir,
			Validate:     *validate,
			Digests:      *digests,
			Cleanup:      *cleanup,
			Submitter:    submitter,
		},
		combos,
	)

	// The report covers whatever was processed, even when
	// the run aborted.
	if *reportPath != "" {
		if err := writeReport(rep, *reportPath); err != nil {
			slog.Error(
				"failed to write report",
				"error", err,
			)
		}
	}

	if runErr != nil {
		return fmt.Errorf("%s: %w", errCtx, runErr)
	}

	slog.Info(
		"batch complete",
		"generated", len(rep.Generated),
		"submitted", rep.Submitted,
		"skipped", rep.Skipped,
		"unchanged", rep.Unchanged,
	)

	return nil
}

// newSubmitter selects the submission transport. Pattern:
// Factory -- mirrors provider selection in publish.
func newSubmitter(
	noSubmit bool,
	via string,
	kubectlBin string,
	kubeconfig string,
	namespace string,
) (submit.Submitter, error) {
	const errCtx = "creating submitter"

	if noSubmit {
		return nil, nil
	}

	switch via {
	case "kubectl":
		return submit.Kubectl{Bin: kubectlBin}, nil

	case "api":
		cl, err := submit.NewCluster(
			submit.ClusterConfig{
				Kubeconfig: kubeconfig,
				Namespace:  namespace,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return cl, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown transport %q", errCtx, via,
		)
	}
}

// writeReport writes the JSON report to path, or stdout when
// path is "-".
func writeReport(
	rep *generator.Report,
	path string,
) error {
	const errCtx = "writing run report"

	if path == "-" {
		return rep.WriteJSON(os.Stdout)
	}

	fi, err := os.Create(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer fi.Close() //nolint:errcheck // best-effort close

	return rep.WriteJSON(fi)
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
