package bitbucket_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bb "github.com/bjmiao/nrp-k8s-yaml/publish/git/bitbucket"
)

func validConfig() bb.Config {
	return bb.Config{
		APIEndpoint: "https://bb.example.com/rest",
		Project:     "ML",
		Repo:        "experiments",
		User:        "admin",
		Password:    "secret",
	}
}

func TestNewProvider_valid(t *testing.T) {
	t.Parallel()

	pv, err := bb.NewProvider(validConfig())

	require.NoError(t, err)
	assert.NotNil(t, pv)
}

func TestNewProvider_missing_endpoint(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.APIEndpoint = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "api endpoint")
}

func TestNewProvider_missing_project(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Project = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "project")
}

func TestNewProvider_missing_user(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.User = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "user must be set")
}

func TestProvider_CreatePR_created(t *testing.T) {
	t.Parallel()

	var gotBody []byte

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				r *http.Request,
			) {
				var err error

				gotBody, err = io.ReadAll(r.Body)
				if err != nil {
					http.Error(
						w,
						"read error",
						http.StatusInternalServerError,
					)

					return
				}

				w.WriteHeader(http.StatusCreated)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"jobs/latents-sweep",
		"main",
		"job batch",
		"six new manifests",
	)

	require.NoError(t, err)
	assert.Contains(
		t, string(gotBody), `"title":"job batch"`,
	)
	assert.Contains(
		t, string(gotBody),
		`"description":"six new manifests"`,
	)
	assert.Contains(
		t, string(gotBody),
		`refs/heads/jobs/latents-sweep`,
	)
	assert.Contains(
		t, string(gotBody), `"slug":"experiments"`,
	)
	assert.Contains(
		t, string(gotBody), `"key":"ML"`,
	)
}

func TestProvider_CreatePR_already_exists(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(http.StatusConflict)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"jobs/latents-sweep", "main", "t", "b",
	)

	assert.NoError(t, err)
}

func TestProvider_CreatePR_unexpected_status(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(
					http.StatusInternalServerError,
				)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"jobs/latents-sweep", "main", "t", "b",
	)

	assert.ErrorContains(t, err, "unexpected status")
}
