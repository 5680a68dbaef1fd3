// Package publish pushes generated job manifests to a git
// repository branch and opens a pull request for review. It
// clones the repository, switches to the jobs branch, copies
// the manifests into place, commits them with an embedded
// job list, pushes the branch, and creates the PR.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bjmiao/nrp-k8s-yaml/publish/git"
	"github.com/bjmiao/nrp-k8s-yaml/publish/joblist"
)

// Config holds all settings for a job publication run. Use a
// Config struct instead of many arguments.
type Config struct {
	// GitRepo is the remote repository URL.
	GitRepo string

	// TmpDir is the directory for temporary clones.
	TmpDir string

	// PrimaryBranch is the main branch (e.g. "main").
	PrimaryBranch string

	// JobsBranch is the branch that receives generated job
	// manifests.
	JobsBranch string

	// JobsPath restricts the git sparse checkout to a
	// subdirectory (empty means root). Job files are copied
	// below this path.
	JobsPath string

	// PRTitle is the title for the created pull request.
	PRTitle string

	// PRBody is the body for the created pull request.
	PRBody string

	// DryRun skips push and PR creation when true.
	DryRun bool

	// Provider creates pull requests on a git hosting
	// platform.
	Provider git.Provider
}

// Run executes the full job publication workflow. It clones
// the repository, switches to the jobs branch, copies the
// given job files into place, commits them, pushes the
// branch, and creates a pull request.
func Run(
	ctx context.Context,
	cfg Config,
	files []string,
) error {
	const errCtx = "publishing jobs"

	if len(files) == 0 {
		slog.Info("no job files to publish")

		return nil
	}

	cloneDir := filepath.Join(cfg.TmpDir, "jobs-publish")

	repo, err := git.Clone(
		cfg.GitRepo,
		cloneDir,
		cfg.PrimaryBranch,
		cfg.JobsPath,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: clone repo: %w", errCtx, err,
		)
	}

	defer func() {
		if cleanErr := repo.Clean(); cleanErr != nil {
			slog.Error(
				"failed to clean repo",
				"error", cleanErr,
			)
		}
	}()

	repo.Fetch(cfg.JobsBranch)

	isNew := repo.SwitchToBranch(
		cfg.JobsBranch, cfg.PrimaryBranch,
	)

	names := jobNames(files)

	// Check if previously published jobs were removed. If
	// so, recreate the branch so stale manifests do not
	// linger on it.
	if !isNew {
		lastMsg := repo.GetLastCommitMessage()
		prev := joblist.ExtractJobs(lastMsg)

		if hasRemovedJobs(prev, names) {
			slog.Info(
				"recreating branch due to removed jobs",
				"branch", cfg.JobsBranch,
			)

			repo.RecreateBranch(
				cfg.JobsBranch, cfg.PrimaryBranch,
			)
		}
	}

	if err := copyJobs(
		files, repo.Dir, cfg.JobsPath,
	); err != nil {
		return fmt.Errorf(
			"%s: copy jobs: %w", errCtx, err,
		)
	}

	msg := cfg.PRTitle + "\n" + joblist.Generate(names)

	committed := repo.Commit(msg, cfg.JobsPath)
	if !committed {
		slog.Info(
			"no changes to publish",
			"branch", cfg.JobsBranch,
		)

		return nil
	}

	if cfg.DryRun {
		slog.Info(
			"dry run: skipping push and PR creation",
			"branch", cfg.JobsBranch,
		)

		return nil
	}

	repo.Push(cfg.JobsBranch)

	if err := cfg.Provider.CreatePR(
		ctx,
		cfg.JobsBranch,
		cfg.PrimaryBranch,
		cfg.PRTitle,
		cfg.PRBody,
	); err != nil {
		return fmt.Errorf(
			"%s: create PR: %w", errCtx, err,
		)
	}

	return nil
}

// jobNames returns the sorted base names of the given job
// files. Base names identify jobs in commit messages.
func jobNames(files []string) []string {
	names := make([]string, 0, len(files))

	for _, f := range files {
		names = append(names, filepath.Base(f))
	}

	sort.Strings(names)

	return names
}

// copyJobs copies each job file into the jobs path inside the
// clone directory.
//
//nolint:gosec // file paths originate from CLI flags
func copyJobs(
	files []string,
	cloneDir string,
	jobsPath string,
) error {
	destDir := filepath.Join(cloneDir, jobsPath)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf(
			"create jobs dir: %w", err,
		)
	}

	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf(
				"read %s: %w", f, err,
			)
		}

		dest := filepath.Join(
			destDir, filepath.Base(f),
		)

		//nolint:gosec // job manifests are world readable
		if err := os.WriteFile(
			dest, raw, 0o644,
		); err != nil {
			return fmt.Errorf(
				"write %s: %w", dest, err,
			)
		}
	}

	return nil
}

// hasRemovedJobs returns true if any previously published job
// is missing from the current set.
func hasRemovedJobs(
	prev []string,
	current []string,
) bool {
	cur := make(map[string]struct{}, len(current))
	for _, j := range current {
		cur[j] = struct{}{}
	}

	for _, j := range prev {
		if _, ok := cur[j]; !ok {
			return true
		}
	}

	return false
}
