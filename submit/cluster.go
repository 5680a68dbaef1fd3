package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8syaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Cluster submits job manifests straight to the API server
// through client-go, with no kubectl on the host.
//
// Pattern: Strategy -- implements Submitter.
type Cluster struct {
	// Clients is the Kubernetes clientset.
	Clients kubernetes.Interface

	// Namespace is the fallback namespace for manifests that
	// do not set metadata.namespace. Empty means "default".
	Namespace string
}

// ClusterConfig holds the settings needed to build a Cluster
// submitter from a kubeconfig file.
type ClusterConfig struct {
	// Kubeconfig is the kubeconfig path. Empty means
	// $HOME/.kube/config.
	Kubeconfig string

	// Namespace is the fallback namespace for submitted jobs.
	Namespace string
}

// NewCluster loads the kubeconfig and returns a Cluster ready
// to submit jobs.
func NewCluster(cfg ClusterConfig) (*Cluster, error) {
	const errCtx = "creating cluster submitter"

	kubeconfig := cfg.Kubeconfig
	if kubeconfig == "" {
		kubeconfig = filepath.Join(
			homedir.HomeDir(), ".kube", "config",
		)
	}

	restCfg, err := clientcmd.BuildConfigFromFlags(
		"", kubeconfig,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: load kubeconfig: %w", errCtx, err,
		)
	}

	clients, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new clientset: %w", errCtx, err,
		)
	}

	return &Cluster{
		Clients:   clients,
		Namespace: cfg.Namespace,
	}, nil
}

// Submit decodes every batch/v1 Job document in the manifest
// file and creates them on the cluster. The first job that
// already exists aborts the file with ErrAlreadyExists.
func (c *Cluster) Submit(
	ctx context.Context,
	path string,
) error {
	const errCtx = "submitting via api server"

	raw, err := os.ReadFile(path) //nolint:gosec // path from generator output
	if err != nil {
		return fmt.Errorf(
			"%s: read %s: %w", errCtx, path, err,
		)
	}

	decoder := k8syaml.NewYAMLOrJSONDecoder(
		bytes.NewReader(raw), 4096,
	)

	created := 0

	for {
		var job batchv1.Job

		err := decoder.Decode(&job)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf(
				"%s: decode %s: %w",
				errCtx, path, err,
			)
		}

		// Empty document between separators.
		if job.Kind == "" && job.Name == "" {
			continue
		}

		if job.Kind != "" && job.Kind != "Job" {
			return fmt.Errorf(
				"%s: %s: unsupported kind %q",
				errCtx, path, job.Kind,
			)
		}

		ns := job.Namespace
		if ns == "" {
			ns = c.Namespace
		}

		if ns == "" {
			ns = metav1.NamespaceDefault
		}

		got, err := c.Clients.BatchV1().
			Jobs(ns).
			Create(ctx, &job, metav1.CreateOptions{})
		if err != nil {
			if apierrors.IsAlreadyExists(err) {
				return fmt.Errorf(
					"%s: %s: %w",
					errCtx, path, ErrAlreadyExists,
				)
			}

			return fmt.Errorf(
				"%s: create %s: %w",
				errCtx, path, err,
			)
		}

		created++

		slog.Info(
			"submitted job",
			"name", got.Name,
			"namespace", ns,
		)
	}

	if created == 0 {
		return fmt.Errorf(
			"%s: %s: no job documents",
			errCtx, path,
		)
	}

	return nil
}
