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

// Package dummy implements an in-memory backend adapter. It materializes the
// planner's placeholder outputs into fake values, which makes it useful for
// local development and for exercising the full apply path in tests.
package dummy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
)

// Name of the backend
const Name = "dummy"

// Backend is a dummy backend adapter.
type Backend struct {
	mu      sync.Mutex
	applied map[string]map[string]string
}

// New returns a dummy backend adapter.
func New() *Backend {
	return &Backend{applied: map[string]map[string]string{}}
}

// Name returns the backend routing name.
func (b *Backend) Name() string {
	return Name
}

// Apply materializes every planned output property into a fake concrete
// value. Each run is stamped with a fresh id so repeated applies are
// distinguishable in logs.
func (b *Backend) Apply(ctx context.Context, plan config.ResourcePlanResult, target plugin.DeployTarget) (config.BackendApplyResult, error) {
	select {
	case <-ctx.Done():
		return config.BackendApplyResult{}, ctx.Err()
	default:
	}

	runID := uuid.NewString()
	version := cast.ToString(plan.Configuration["version"])
	log.Infof("dummy backend applying %s (version %q, run %s)", plan.ResourceType, version, runID)

	outputs := make(map[string]string, len(plan.PlannedOutputs))
	for property := range plan.PlannedOutputs {
		outputs[property] = b.fabricate(plan, target, property)
	}

	b.mu.Lock()
	b.applied[plan.ResourceType] = outputs
	b.mu.Unlock()

	return config.BackendApplyResult{
		Success:         true,
		ResourceOutputs: map[string]map[string]string{plan.ResourceType: outputs},
	}, nil
}

// Destroy forgets every retained output, whatever the target: outputs are
// kept per resource type only. Idempotent.
func (b *Backend) Destroy(ctx context.Context, target plugin.DeployTarget) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b.mu.Lock()
	b.applied = map[string]map[string]string{}
	b.mu.Unlock()

	log.Infof("dummy backend destroyed resources for %s/%s", target.AppName, target.Environment)
	return nil
}

// Outputs returns the outputs retained from the last apply of a resource type.
func (b *Backend) Outputs(resourceType string) (map[string]string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	outputs, ok := b.applied[resourceType]
	return outputs, ok
}

func (b *Backend) fabricate(plan config.ResourcePlanResult, target plugin.DeployTarget, property string) string {
	host := fmt.Sprintf("%s-%s-%s.internal", target.AppName, target.Environment, plan.ResourceType)

	switch property {
	case "connectionString":
		database := cast.ToString(plan.Configuration["database"])
		return fmt.Sprintf("postgresql://app:secret@%s:5432/%s", host, database)
	case "host", "endpoint", "brokers":
		return host
	case "port":
		return "5432"
	case "password":
		return uuid.NewString()
	default:
		return fmt.Sprintf("dummy://%s/%s", plan.ResourceType, property)
	}
}
