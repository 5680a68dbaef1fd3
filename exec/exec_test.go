package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjmiao/nrp-k8s-yaml/exec"
)

func TestEx_success(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex("", "echo", "hello")

	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestEx_with_dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	out, err := exec.Ex(dir, "pwd")

	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestEx_failure_returns_output(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex("", "sh", "-c", "echo boom >&2; exit 1")

	require.Error(t, err)
	assert.Contains(t, out, "boom")
}

func TestMustEx_panics_on_failure(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		exec.MustEx("", "false")
	})
}

func TestMustEx_success(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		exec.MustEx("", "echo", "ok")
	})
}
