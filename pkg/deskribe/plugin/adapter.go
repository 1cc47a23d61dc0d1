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

package plugin

import (
	"context"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
)

// ValidateContext carries the configuration surrounding a provider validation
// call.
type ValidateContext struct {
	Platform    *config.PlatformConfig
	Environment string
}

// PlanContext carries the configuration surrounding a provider planning call.
type PlanContext struct {
	Platform    *config.PlatformConfig
	EnvConfig   *config.EnvironmentConfig
	Environment string
	AppName     string
}

// DeployTarget identifies the application/environment pair a backend operates
// on.
type DeployTarget struct {
	AppName     string
	Environment string
	Platform    *config.PlatformConfig
}

// ResourceProvider understands a single resource type: it validates the
// declared resource and projects it into a resource plan. Both operations are
// pure; they must not perform I/O and must be deterministic for identical
// inputs.
type ResourceProvider interface {
	// Type returns the resource type tag the provider is registered under.
	Type() string

	// Validate statically checks a declared resource.
	Validate(resource config.Resource, vctx ValidateContext) config.ValidationResult

	// Plan projects a declared resource into a plan result.
	Plan(resource config.Resource, pctx PlanContext) (config.ResourcePlanResult, error)
}

// BackendAdapter provisions planned resources through an IaC driver and
// returns the outputs reference resolution consumes. Apply must populate
// ResourceOutputs for the plan's resource type with at least the properties
// the workload references; unresolved references surface as warnings later.
type BackendAdapter interface {
	// Name returns the backend name used in backend routing tables.
	Name() string

	// Apply provisions one resource plan. It may perform I/O and must honour
	// ctx cancellation.
	Apply(ctx context.Context, plan config.ResourcePlanResult, target DeployTarget) (config.BackendApplyResult, error)

	// Destroy tears down everything the backend provisioned for the target.
	// Best effort and idempotent.
	Destroy(ctx context.Context, target DeployTarget) error
}

// RuntimeAdapter deploys the resolved workload.
type RuntimeAdapter interface {
	// Name returns the runtime name referenced by platform defaults.
	Name() string

	// Render transforms a resolved workload plan into a deployable artifact.
	// Pure transformation.
	Render(workload config.WorkloadPlan) (config.WorkloadManifest, error)

	// Apply deploys a rendered manifest. Create-or-update: repeated applies of
	// the same inputs are idempotent.
	Apply(ctx context.Context, manifest config.WorkloadManifest) error

	// Destroy removes the workload deployed into a namespace. Idempotent.
	Destroy(ctx context.Context, namespace string) error
}

// MessagingProvider supplements a messaging resource type with policy checks
// and ACL planning beyond what its resource provider covers.
type MessagingProvider interface {
	// Type returns the messaging resource type tag.
	Type() string

	// ValidateMessaging applies messaging-specific policy checks.
	ValidateMessaging(resource config.Resource, vctx ValidateContext) config.ValidationResult

	// PlanBindings projects the topic access bindings to provision.
	PlanBindings(resource config.Resource, pctx PlanContext) ([]config.AccessBinding, error)
}
