// Command publish_jobs pushes generated job manifests to a
// git repository branch and opens a pull request on the
// configured git hosting platform.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bjmiao/nrp-k8s-yaml/publish"
	"github.com/bjmiao/nrp-k8s-yaml/publish/git"
	"github.com/bjmiao/nrp-k8s-yaml/publish/git/bitbucket"
	"github.com/bjmiao/nrp-k8s-yaml/publish/git/github"
	"github.com/bjmiao/nrp-k8s-yaml/publish/git/gitlab"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run() error {
	const errCtx = "running publish_jobs"

	// Git repository flags.
	gitRepo := flag.String(
		"git_repo", "",
		"Remote git repository URL",
	)
	jobsPath := flag.String(
		"jobs_path", "",
		"Subdirectory that receives job manifests",
	)
	tmpDir := flag.String(
		"tmp_dir", os.TempDir(),
		"Temporary directory for clones",
	)

	// Branch flags.
	primaryBranch := flag.String(
		"primary_branch", "main",
		"Primary branch name",
	)
	jobsBranch := flag.String(
		"jobs_branch", "jobs/generated",
		"Branch that receives generated jobs",
	)

	// PR flags.
	prTitle := flag.String(
		"pr_title", "Generated job batch",
		"Title for the created pull request",
	)
	prBody := flag.String(
		"pr_body", "",
		"Body for the created pull request",
	)
	dryRun := flag.Bool(
		"dry_run", false,
		"Skip push and PR creation",
	)

	// Git provider selection.
	gitServer := flag.String(
		"git_server", "github",
		"Git hosting platform: github, gitlab, "+
			"or bitbucket",
	)

	// GitHub-specific flags.
	ghOwner := flag.String(
		"github_owner", "",
		"GitHub repository owner",
	)
	ghRepo := flag.String(
		"github_repo", "",
		"GitHub repository name",
	)
	ghToken := flag.String(
		"github_access_token", "",
		"GitHub personal access token",
	)
	ghEnterprise := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)

	// GitLab-specific flags.
	glHost := flag.String(
		"gitlab_host", "",
		"GitLab instance URL",
	)
	glRepo := flag.String(
		"gitlab_repo", "",
		"GitLab project path (org/project)",
	)
	glToken := flag.String(
		"gitlab_access_token", "",
		"GitLab personal access token",
	)

	// Bitbucket-specific flags.
	bbEndpoint := flag.String(
		"bitbucket_api_endpoint", "",
		"Bitbucket Server REST API URL",
	)
	bbProject := flag.String(
		"bitbucket_project", "",
		"Bitbucket project key",
	)
	bbRepo := flag.String(
		"bitbucket_repo", "",
		"Bitbucket repository slug",
	)
	bbUser := flag.String(
		"bitbucket_user", "",
		"Bitbucket API username",
	)
	bbPassword := flag.String(
		"bitbucket_password", "",
		"Bitbucket API password or token",
	)

	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		return fmt.Errorf(
			"%s: no job files given", errCtx,
		)
	}

	// Build git provider from flags.
	provider, err := newGitProvider(
		*gitServer,
		providerFlags{
			ghOwner:      *ghOwner,
			ghRepo:       *ghRepo,
			ghToken:      *ghToken,
			ghEnterprise: *ghEnterprise,
			glHost:       *glHost,
			glRepo:       *glRepo,
			glToken:      *glToken,
			bbEndpoint:   *bbEndpoint,
			bbProject:    *bbProject,
			bbRepo:       *bbRepo,
			bbUser:       *bbUser,
			bbPassword:   *bbPassword,
		},
	)
	if err != nil {
		return fmt.Errorf(
			"%s: create provider: %w", errCtx, err,
		)
	}

	cfg := publish.Config{
		GitRepo:       *gitRepo,
		TmpDir:        *tmpDir,
		PrimaryBranch: *primaryBranch,
		JobsBranch:    *jobsBranch,
		JobsPath:      *jobsPath,
		PRTitle:       *prTitle,
		PRBody:        *prBody,
		DryRun:        *dryRun,
		Provider:      provider,
	}

	if err := publish.Run(
		context.Background(), cfg, files,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// providerFlags bundles provider-specific flag values to
// keep newGitProvider under the 4-argument limit.
type providerFlags struct {
	ghOwner      string
	ghRepo       string
	ghToken      string
	ghEnterprise string
	glHost       string
	glRepo       string
	glToken      string
	bbEndpoint   string
	bbProject    string
	bbRepo       string
	bbUser       string
	bbPassword   string
}

// newGitProvider creates a git.Provider based on the server
// name. Pattern: Factory -- selects platform implementation
// at runtime.
func newGitProvider(
	server string,
	pf providerFlags,
) (git.Provider, error) {
	const errCtx = "creating git provider"

	switch server {
	case "github":
		p, err := github.NewProvider(github.Config{
			Owner:          pf.ghOwner,
			Repo:           pf.ghRepo,
			AccessToken:    pf.ghToken,
			EnterpriseHost: pf.ghEnterprise,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "gitlab":
		p, err := gitlab.NewProvider(gitlab.Config{
			Host:        pf.glHost,
			Repo:        pf.glRepo,
			AccessToken: pf.glToken,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "bitbucket":
		p, err := bitbucket.NewProvider(
			bitbucket.Config{
				APIEndpoint: pf.bbEndpoint,
				Project:     pf.bbProject,
				Repo:        pf.bbRepo,
				User:        pf.bbUser,
				Password:    pf.bbPassword,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown server %q", errCtx, server,
		)
	}
}
