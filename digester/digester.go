// Package digester records SHA256 sidecar digests next to
// generated job manifests. A .digest file written after a run
// lets the next run tell unchanged outputs from regenerated
// ones.
package digester

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// Calculate computes the SHA256 hex digest of the file at
// path. A missing file yields an empty digest with no error.
func Calculate(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	if _, err := io.Copy(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// Stored reads the digest recorded in the .digest sidecar of
// path. A missing sidecar yields an empty digest with no
// error.
func Stored(path string) (string, error) {
	const errCtx = "reading stored digest"

	dp := path + ".digest"

	if _, err := os.Stat(dp); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	digest, err := os.ReadFile(dp) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return string(digest), nil
}

// Matches reports whether the file at path still has the
// digest recorded in its sidecar.
func Matches(path string) (bool, error) {
	const errCtx = "matching digest"

	calc, err := Calculate(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	stored, err := Stored(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return calc == stored, nil
}

// Save records the current digest of the file at path in its
// .digest sidecar.
func Save(path string) error {
	const errCtx = "saving digest"

	digest, err := Calculate(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	dp := path + ".digest"

	if err := os.WriteFile(dp, []byte(digest), 0o600); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
