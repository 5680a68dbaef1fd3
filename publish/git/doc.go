// Package git provides the local clone plumbing and the pull
// request provider abstraction used when publishing generated
// job manifests to a repository.
package git
