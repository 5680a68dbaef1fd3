package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjmiao/nrp-k8s-yaml/generator"
)

func TestLoadOptions_stringifies_scalars(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pa := writeTemp(t, dir, "variables.yaml", `n_latents: [4, 8, 32]
lr: [0.001, 0.0001]
transform: [zscore, std]
`)

	opts, err := generator.LoadOptions(pa)

	require.NoError(t, err)
	assert.Equal(
		t, []string{"4", "8", "32"}, opts["n_latents"],
	)
	assert.Equal(
		t, []string{"0.001", "0.0001"}, opts["lr"],
	)
	assert.Equal(
		t, []string{"zscore", "std"}, opts["transform"],
	)
}

func TestLoadOptions_missing_file(t *testing.T) {
	t.Parallel()

	_, err := generator.LoadOptions("/nonexistent.yaml")

	assert.Error(t, err)
}

func TestLoadOptions_empty_mapping(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pa := writeTemp(t, dir, "variables.yaml", "{}\n")

	_, err := generator.LoadOptions(pa)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no variables")
}

func TestLoadOptions_variable_without_values(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pa := writeTemp(t, dir, "variables.yaml", "n_latents: []\n")

	_, err := generator.LoadOptions(pa)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no values")
}

func TestLoadOptions_rejects_scalar_value(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pa := writeTemp(t, dir, "variables.yaml", "n_latents: 4\n")

	_, err := generator.LoadOptions(pa)

	assert.Error(t, err)
}
