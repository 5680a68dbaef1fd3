// Package github creates pull requests on GitHub for
// published job batches.
package github
