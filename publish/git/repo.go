package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	oe "os/exec"
	"path/filepath"

	"github.com/bjmiao/nrp-k8s-yaml/exec"
)

// Repo is a local clone of the repository that receives
// generated job manifests. Create with Clone, call Clean when
// done.
type Repo struct {
	// Dir is the filesystem location of the clone.
	Dir string
	// RemoteName is the name of the upstream remote.
	RemoteName string
}

// Clone clones repo into dir. When jobsPath is non-root, only
// that subtree is checked out via sparse-checkout, since a
// batch publication never touches anything else.
//
//nolint:gosec // file paths originate from CLI flags
func Clone(
	repo string,
	dir string,
	primaryBranch string,
	jobsPath string,
) (*Repo, error) {
	const errCtx = "cloning repository"

	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf(
			"%s: remove dir: %w", errCtx, err,
		)
	}

	remoteName := "origin"

	exec.MustEx(
		"", "git",
		"clone",
		"--no-checkout",
		"--single-branch",
		"--branch", primaryBranch,
		"--filter=blob:none",
		"--no-tags",
		"--origin", remoteName,
		repo, dir,
	)

	if !isRootPath(jobsPath) {
		exec.MustEx(
			dir, "git",
			"config", "--local",
			"core.sparsecheckout", "true",
		)

		sparsePath := filepath.Join(
			dir, ".git", "info", "sparse-checkout",
		)

		//nolint:gosec // mode 0644 is intentional
		err := os.WriteFile(
			sparsePath,
			[]byte(jobsPath+"/\n"),
			0o644,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: write sparse-checkout: %w",
				errCtx, err,
			)
		}
	}

	exec.MustEx(dir, "git", "checkout", primaryBranch)

	return &Repo{
		Dir:        dir,
		RemoteName: remoteName,
	}, nil
}

// Clean removes the local clone directory.
func (r *Repo) Clean() error {
	const errCtx = "cleaning repository"

	if err := os.RemoveAll(r.Dir); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Fetch adds the given pattern to tracked remote branches and
// fetches them, so an existing jobs branch can be checked out.
func (r *Repo) Fetch(pattern string) {
	exec.MustEx(
		r.Dir, "git",
		"remote", "set-branches", "--add",
		r.RemoteName, pattern,
	)
	exec.MustEx(
		r.Dir, "git",
		"fetch", "--force",
		"--filter=blob:none", "--no-tags",
		r.RemoteName,
	)
}

// SwitchToBranch switches to branch, creating it from
// primaryBranch if it does not exist. Returns true when the
// branch was newly created.
func (r *Repo) SwitchToBranch(
	branch string,
	primaryBranch string,
) bool {
	if _, err := exec.Ex(
		r.Dir, "git", "checkout", branch,
	); err != nil {
		// Branch does not exist yet: create and check out.
		exec.MustEx(
			r.Dir, "git",
			"branch", branch, primaryBranch,
		)
		exec.MustEx(
			r.Dir, "git", "checkout", branch,
		)

		return true
	}

	return false
}

// RecreateBranch discards the content of branch and resets it
// from primaryBranch.
func (r *Repo) RecreateBranch(
	branch string,
	primaryBranch string,
) {
	exec.MustEx(
		r.Dir, "git", "checkout", primaryBranch,
	)
	exec.MustEx(
		r.Dir, "git",
		"branch", "-f", branch, primaryBranch,
	)
	exec.MustEx(r.Dir, "git", "checkout", branch)
}

// GetLastCommitMessage returns the most recent commit message
// on the current branch. Returns empty string on error.
func (r *Repo) GetLastCommitMessage() string {
	msg, err := exec.Ex(
		r.Dir, "git", "log", "-1", "--pretty=%B",
	)
	if err != nil {
		return ""
	}

	return msg
}

// Commit stages all changes under jobsPath and commits them.
// Returns true when changes were committed, false when the
// tree was clean.
func (r *Repo) Commit(
	message string,
	jobsPath string,
) bool {
	if isRootPath(jobsPath) {
		exec.MustEx(r.Dir, "git", "add", ".")
	} else {
		exec.MustEx(r.Dir, "git", "add", jobsPath)
	}

	if r.IsClean() {
		return false
	}

	exec.MustEx(
		r.Dir, "git", "commit", "-a", "-m", message,
	)

	return true
}

// IsClean reports whether the working tree has no uncommitted
// changes.
func (r *Repo) IsClean() bool {
	//nolint:gosec // args are constants
	cmd := oe.CommandContext(
		context.Background(),
		"git", "status", "--porcelain",
	)
	cmd.Dir = r.Dir

	by, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error(
			"failed to check repo status",
			"error", err,
		)

		return false
	}

	return len(by) == 0
}

// Push force-pushes the branch to the remote. All changes
// should be committed before calling Push.
func (r *Repo) Push(branch string) {
	exec.MustEx(
		r.Dir, "git",
		"push", r.RemoteName,
		"-f", "--set-upstream", branch,
	)
}

// isRootPath reports whether jobsPath refers to the
// repository root.
func isRootPath(jobsPath string) bool {
	return jobsPath == "" || jobsPath == "."
}
