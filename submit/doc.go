// Package submit hands generated job manifests to a Kubernetes
// cluster. Two submitters exist: Kubectl shells out to kubectl
// create, matching the original workflow; Cluster talks to the
// API server directly through client-go. A job that already
// exists is reported with ErrAlreadyExists so batch runs can
// skip it and continue.
package submit
