// Package expander generates one Kubernetes job manifest per latent
// dimension from a single template file. Every occurrence of the
// placeholder token is replaced by the decimal form of the value, one
// output file per value. The zero value of Engine reproduces the
// original sweep: meta_run_job.yaml expanded over $NLATENTS into
// jobs/job-<n>.yaml for n in {4, 8, 12, 16, 24, 32}.
package expander
