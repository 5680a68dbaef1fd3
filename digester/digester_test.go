package digester_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjmiao/nrp-k8s-yaml/digester"
)

func TestCalculate_returns_sha256(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "job-4.yaml")
	require.NoError(t, os.WriteFile(pa, []byte("hello"), 0o600))

	got, err := digester.Calculate(pa)

	require.NoError(t, err)
	// sha256("hello")
	assert.Equal(
		t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		got,
	)
}

func TestCalculate_nonexistent_file(t *testing.T) {
	t.Parallel()

	got, err := digester.Calculate("/nonexistent")

	assert.Empty(t, got)
	assert.NoError(t, err)
}

func TestSave_and_Stored_roundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "job-8.yaml")
	require.NoError(t, os.WriteFile(pa, []byte("latents: 8\n"), 0o600))

	require.NoError(t, digester.Save(pa))

	got, err := digester.Stored(pa)
	require.NoError(t, err)

	expected, err := digester.Calculate(pa)
	require.NoError(t, err)

	assert.Equal(t, expected, got)
}

func TestMatches_unchanged_output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "job-12.yaml")
	require.NoError(t, os.WriteFile(pa, []byte("latents: 12\n"), 0o600))
	require.NoError(t, digester.Save(pa))

	ok, err := digester.Matches(pa)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_regenerated_output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "job-16.yaml")
	require.NoError(t, os.WriteFile(pa, []byte("latents: 16\n"), 0o600))
	require.NoError(t, digester.Save(pa))

	require.NoError(t, os.WriteFile(pa, []byte("latents: 17\n"), 0o600))

	ok, err := digester.Matches(pa)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_no_sidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "job-24.yaml")
	require.NoError(t, os.WriteFile(pa, []byte("latents: 24\n"), 0o600))

	ok, err := digester.Matches(pa)

	require.NoError(t, err)
	assert.False(t, ok)
}
