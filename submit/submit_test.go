package submit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjmiao/nrp-k8s-yaml/submit"
)

func TestSubmitterFunc_passes_args(t *testing.T) {
	t.Parallel()

	var gotPath string

	fn := submit.SubmitterFunc(
		func(_ context.Context, path string) error {
			gotPath = path

			return nil
		},
	)

	err := fn.Submit(
		context.Background(), "batch_job/job_a.yaml",
	)

	require.NoError(t, err)
	assert.Equal(t, "batch_job/job_a.yaml", gotPath)
}

func TestSubmitterFunc_returns_error(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test error")

	fn := submit.SubmitterFunc(
		func(_ context.Context, _ string) error {
			return errTest
		},
	)

	err := fn.Submit(context.Background(), "x.yaml")

	assert.ErrorIs(t, err, errTest)
}

// fakeKubectl writes a stub executable that prints output and
// exits with code.
func fakeKubectl(
	t *testing.T,
	output string,
	code int,
) string {
	t.Helper()

	pa := filepath.Join(t.TempDir(), "kubectl")

	script := "#!/bin/sh\necho '" + output + "'\nexit " +
		strconv.Itoa(code) + "\n"

	require.NoError(
		t,
		os.WriteFile(pa, []byte(script), 0o700), //nolint:gosec // test stub
	)

	return pa
}

func TestKubectl_success(t *testing.T) {
	t.Parallel()

	bin := fakeKubectl(t, "job.batch/job-4 created", 0)

	ku := submit.Kubectl{Bin: bin}

	err := ku.Submit(context.Background(), "jobs/job-4.yaml")

	assert.NoError(t, err)
}

func TestKubectl_already_exists(t *testing.T) {
	t.Parallel()

	bin := fakeKubectl(
		t,
		`Error from server (AlreadyExists): jobs.batch "job-4" already exists`,
		1,
	)

	ku := submit.Kubectl{Bin: bin}

	err := ku.Submit(context.Background(), "jobs/job-4.yaml")

	assert.ErrorIs(t, err, submit.ErrAlreadyExists)
}

func TestKubectl_other_failure(t *testing.T) {
	t.Parallel()

	bin := fakeKubectl(t, "connection refused", 1)

	ku := submit.Kubectl{Bin: bin}

	err := ku.Submit(context.Background(), "jobs/job-4.yaml")

	require.Error(t, err)
	assert.NotErrorIs(t, err, submit.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "connection refused")
}
