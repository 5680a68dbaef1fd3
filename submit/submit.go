package submit

import (
	"context"
	"errors"
)

// ErrAlreadyExists reports that the cluster already has a job
// with the manifest's name. Callers skip the file and move on.
var ErrAlreadyExists = errors.New("job already exists")

// Pattern: Strategy -- swap the submission transport without
// changing batch generation logic.

// Submitter hands one manifest file to a cluster.
type Submitter interface {
	Submit(ctx context.Context, path string) error
}

// SubmitterFunc adapts a plain function to the Submitter
// interface.
type SubmitterFunc func(
	ctx context.Context,
	path string,
) error

// Submit delegates to the wrapped function.
func (f SubmitterFunc) Submit(
	ctx context.Context,
	path string,
) error {
	return f(ctx, path)
}
