/**
 * Copyright 2024 Deskribe Authors <info@deskribe.dev>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package dummy implements a runtime adapter that renders the workload into
// a deployment document and "deploys" it by logging. It exercises the full
// render/apply path without talking to an orchestrator.
package dummy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

// Name of the runtime
const Name = "dummy"

// deploymentTemplate is the baseline document Render patches per workload.
const deploymentTemplate = `{
  "apiVersion": "apps/v1",
  "kind": "Deployment",
  "metadata": {"name": "", "namespace": "", "annotations": {}},
  "spec": {
    "replicas": 1,
    "template": {
      "spec": {
        "containers": [
          {"name": "app", "image": "", "resources": {"requests": {"cpu": "", "memory": ""}}, "env": []}
        ]
      }
    }
  }
}`

// Runtime is a dummy runtime adapter.
type Runtime struct {
	mu       sync.Mutex
	deployed map[string][]byte
}

// New returns a dummy runtime adapter.
func New() *Runtime {
	return &Runtime{deployed: map[string][]byte{}}
}

// Name returns the runtime name.
func (r *Runtime) Name() string {
	return Name
}

// Render patches the baseline deployment document with the resolved workload
// and serializes it to YAML.
func (r *Runtime) Render(workload config.WorkloadPlan) (config.WorkloadManifest, error) {
	doc := deploymentTemplate

	var err error
	for _, patch := range []struct {
		path  string
		value interface{}
	}{
		{"metadata.name", workload.AppName},
		{"metadata.namespace", workload.Namespace},
		{"metadata.annotations.deskribe\\.dev/secrets-strategy", workload.SecretsStrategy},
		{"spec.replicas", workload.Replicas},
		{"spec.template.spec.containers.0.image", workload.Image},
		{"spec.template.spec.containers.0.resources.requests.cpu", workload.CPU},
		{"spec.template.spec.containers.0.resources.requests.memory", workload.Memory},
	} {
		doc, err = sjson.Set(doc, patch.path, patch.value)
		if err != nil {
			return config.WorkloadManifest{}, errors.Wrapf(err, "patching %s", patch.path)
		}
	}

	if workload.ExternalSecretsStore != "" {
		doc, err = sjson.Set(doc, "metadata.annotations.deskribe\\.dev/external-secrets-store", workload.ExternalSecretsStore)
		if err != nil {
			return config.WorkloadManifest{}, errors.Wrap(err, "patching secrets store annotation")
		}
	}

	names := make([]string, 0, len(workload.EnvironmentVariables))
	for name := range workload.EnvironmentVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := map[string]string{"name": name, "value": workload.EnvironmentVariables[name]}
		doc, err = sjson.Set(doc, "spec.template.spec.containers.0.env.-1", entry)
		if err != nil {
			return config.WorkloadManifest{}, errors.Wrapf(err, "patching env var %s", name)
		}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &obj); err != nil {
		return config.WorkloadManifest{}, errors.Wrap(err, "decoding rendered deployment")
	}
	out, err := yaml.Marshal(obj)
	if err != nil {
		return config.WorkloadManifest{}, errors.Wrap(err, "serializing rendered deployment")
	}

	return config.WorkloadManifest{
		Namespace:     workload.Namespace,
		YAML:          out,
		ResourceNames: []string{fmt.Sprintf("deployment/%s", workload.AppName)},
	}, nil
}

// Apply records the manifest for its namespace. Create-or-update: repeated
// applies replace the previous document.
func (r *Runtime) Apply(ctx context.Context, manifest config.WorkloadManifest) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	r.deployed[manifest.Namespace] = manifest.YAML
	r.mu.Unlock()

	log.Infof("dummy runtime applied %v to namespace %s", manifest.ResourceNames, manifest.Namespace)
	return nil
}

// Destroy forgets the namespace. Idempotent.
func (r *Runtime) Destroy(ctx context.Context, namespace string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	delete(r.deployed, namespace)
	r.mu.Unlock()

	log.Infof("dummy runtime destroyed namespace %s", namespace)
	return nil
}

// Deployed returns the manifest last applied to a namespace.
func (r *Runtime) Deployed(namespace string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, ok := r.deployed[namespace]
	return out, ok
}
