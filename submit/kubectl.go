package submit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bjmiao/nrp-k8s-yaml/exec"
)

// Kubectl submits manifests by shelling out to kubectl,
// exactly as the original batch workflow did.
//
// Pattern: Strategy -- implements Submitter.
type Kubectl struct {
	// Bin is the kubectl binary name or path. Empty means
	// "kubectl" from PATH.
	Bin string
}

// Submit runs `kubectl create -f path`. An AlreadyExists
// response from the server maps to ErrAlreadyExists.
func (k Kubectl) Submit(
	_ context.Context,
	path string,
) error {
	const errCtx = "submitting via kubectl"

	bin := k.Bin
	if bin == "" {
		bin = "kubectl"
	}

	out, err := exec.Ex("", bin, "create", "-f", path)
	if err != nil {
		if strings.Contains(out, "AlreadyExists") ||
			strings.Contains(out, "already exists") {
			return fmt.Errorf(
				"%s: %s: %w",
				errCtx, path, ErrAlreadyExists,
			)
		}

		return fmt.Errorf(
			"%s: %s: %s: %w",
			errCtx, path, strings.TrimSpace(out), err,
		)
	}

	slog.Info(
		"submitted job",
		"file", path,
		"output", strings.TrimSpace(out),
	)

	return nil
}
