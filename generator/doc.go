// Package generator produces a batch of Kubernetes job
// manifests from one template and a variable-options file.
// Variables appear in the template as $(name) and options are
// a YAML mapping of variable names to value lists; the batch
// is the cartesian product of all options, one output file per
// combination. Generated files can be validated, digest
// tracked, and submitted to a cluster through a
// submit.Submitter.
package generator
