// Package manifest inspects multi-document Kubernetes YAML.
// Every document must carry a kind and metadata.name; Lint
// returns one Info per document for logging and submission.
package manifest

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Info identifies a single document in a manifest stream.
type Info struct {
	Name       string
	Kind       string
	APIVersion string
}

// Lint decodes multi-document YAML from in and returns one
// Info per non-empty document. A document without kind or
// metadata.name is an error; a stream with no documents at
// all is an error too, since a generated job file must
// contain at least one object.
func Lint(in io.Reader) ([]Info, error) {
	const errCtx = "linting manifest"

	decoder := yaml.NewDecoder(in)

	var infos []Info

	for {
		var obj map[string]interface{}

		err := decoder.Decode(&obj)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf(
				"%s: decoding yaml: %w",
				errCtx, err,
			)
		}

		if obj == nil {
			continue
		}

		name := extractName(obj)
		if name == "" {
			return nil, fmt.Errorf(
				"%s: missing metadata.name in object %v",
				errCtx, obj,
			)
		}

		kind := extractKind(obj)
		if kind == "" {
			return nil, fmt.Errorf(
				"%s: missing kind in object %v",
				errCtx, obj,
			)
		}

		infos = append(infos, Info{
			Name:       name,
			Kind:       kind,
			APIVersion: extractAPIVersion(obj),
		})
	}

	if len(infos) == 0 {
		return nil, fmt.Errorf(
			"%s: no documents found", errCtx,
		)
	}

	return infos, nil
}

// extractName retrieves metadata.name from a YAML object
// represented as a nested map.
func extractName(obj map[string]interface{}) string {
	metadata, ok := obj["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}

	name, ok := metadata["name"].(string)
	if !ok {
		return ""
	}

	return name
}

// extractKind retrieves the kind field.
func extractKind(obj map[string]interface{}) string {
	kind, ok := obj["kind"].(string)
	if !ok {
		return ""
	}

	return kind
}

// extractAPIVersion retrieves the apiVersion field.
func extractAPIVersion(obj map[string]interface{}) string {
	apiVersion, ok := obj["apiVersion"].(string)
	if !ok {
		return ""
	}

	return apiVersion
}
