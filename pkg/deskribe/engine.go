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

package deskribe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
	"github.com/deskribe/deskribe/pkg/deskribe/reference"
	"github.com/deskribe/deskribe/pkg/deskribe/validation"
)

// Engine drives the four-phase pipeline over a plugin registry. The registry
// must be fully populated before the first command runs.
type Engine struct {
	registry *plugin.Registry
}

// NewEngine returns an engine bound to a registry.
func NewEngine(registry *plugin.Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate loads the configuration layers and aggregates every static
// finding: policy checks, reference targets and per-resource provider
// validation. Loader failures are returned as errors; everything else lands
// in the result.
func (e *Engine) Validate(manifestPath, platformPath, environment string) (config.ValidationResult, error) {
	m, platform, envCfg, overlayWarnings, err := e.load(manifestPath, platformPath, environment)
	if err != nil {
		return config.ValidationResult{}, err
	}

	var result config.ValidationResult
	result.Warnings = append(result.Warnings, overlayWarnings...)

	policy := validation.ValidatePolicies(m, platform, envCfg)
	result.Append(policy)
	if !policy.IsValid() {
		return result.Deduped(), nil
	}

	if svc, ok := m.PrimaryService(); ok {
		result.Append(reference.Validate(svc.Env, m.DeclaredTypes()))
	}

	vctx := plugin.ValidateContext{Platform: platform, Environment: environment}
	for _, resource := range m.Resources {
		provider, ok := e.registry.Provider(resource.ResourceType())
		if !ok {
			result.AddError(config.KindNoProvider,
				"no provider registered for resource type %q", resource.ResourceType())
			continue
		}
		result.Append(provider.Validate(resource, vctx))

		if messaging, ok := e.registry.Messaging(resource.ResourceType()); ok {
			result.Append(messaging.ValidateMessaging(resource, vctx))
		}
	}

	return result.Deduped(), nil
}

// Plan loads and merges the configuration layers and projects every declared
// resource through its provider. Planning never contacts external systems.
// A validation error aggregate is returned as *ValidationFailedError.
func (e *Engine) Plan(manifestPath, platformPath, environment string, images map[string]string) (*config.DeskribePlan, error) {
	m, platform, envCfg, overlayWarnings, err := e.load(manifestPath, platformPath, environment)
	if err != nil {
		return nil, err
	}

	validated := validation.ValidatePolicies(m, platform, envCfg)
	if svc, ok := m.PrimaryService(); ok {
		validated.Append(reference.Validate(svc.Env, m.DeclaredTypes()))
	}
	validated = validated.Deduped()
	if !validated.IsValid() {
		return nil, &ValidationFailedError{Result: validated}
	}

	workload := MergeWorkload(m, platform, envCfg, environment, images)
	plan := &config.DeskribePlan{
		AppName:           m.Name,
		Environment:       environment,
		Platform:          platform,
		EnvironmentConfig: envCfg,
		Workload:          &workload,
	}

	for _, issue := range overlayWarnings {
		plan.Warnings = append(plan.Warnings, issue.Message)
	}
	for _, issue := range validated.Warnings {
		plan.Warnings = append(plan.Warnings, issue.Message)
	}

	pctx := plugin.PlanContext{
		Platform:    platform,
		EnvConfig:   envCfg,
		Environment: environment,
		AppName:     m.Name,
	}
	for _, resource := range m.Resources {
		provider, ok := e.registry.Provider(resource.ResourceType())
		if !ok {
			message := fmt.Sprintf("no provider registered for resource type %q, skipping plan", resource.ResourceType())
			log.Warn(message)
			plan.Warnings = append(plan.Warnings, message)
			continue
		}

		resourcePlan, err := provider.Plan(resource, pctx)
		if err != nil {
			return nil, errors.Wrapf(err, "planning resource %q", resource.ResourceType())
		}

		if messaging, ok := e.registry.Messaging(resource.ResourceType()); ok {
			bindings, err := messaging.PlanBindings(resource, pctx)
			if err != nil {
				return nil, errors.Wrapf(err, "planning messaging bindings for %q", resource.ResourceType())
			}
			if len(bindings) > 0 {
				if resourcePlan.Configuration == nil {
					resourcePlan.Configuration = map[string]interface{}{}
				}
				resourcePlan.Configuration["accessBindings"] = bindings
			}
		}

		plan.ResourcePlans = append(plan.ResourcePlans, resourcePlan)
	}

	return plan, nil
}

// Apply provisions every resource plan through its routed backend, resolves
// the workload's references against the aggregated backend outputs and hands
// the resolved workload to the runtime adapter. A backend failure aborts the
// command before any runtime deployment; a missing runtime adapter downgrades
// to a warning and skips deployment.
func (e *Engine) Apply(ctx context.Context, plan *config.DeskribePlan) error {
	target := plugin.DeployTarget{
		AppName:     plan.AppName,
		Environment: plan.Environment,
		Platform:    plan.Platform,
	}

	outputs := map[string]map[string]string{}
	for _, resourcePlan := range plan.ResourcePlans {
		backendName, ok := plan.Platform.BackendFor(plan.EnvironmentConfig, resourcePlan.ResourceType)
		if !ok {
			return &BackendApplyFailedError{
				ResourceType: resourcePlan.ResourceType,
				Errors:       []string{"no backend configured"},
			}
		}
		backend, ok := e.registry.Backend(backendName)
		if !ok {
			return &BackendApplyFailedError{
				ResourceType: resourcePlan.ResourceType,
				Errors:       []string{fmt.Sprintf("backend adapter %q is not registered", backendName)},
			}
		}

		log.Infof("applying resource %q via backend %q", resourcePlan.ResourceType, backendName)
		result, err := backend.Apply(ctx, resourcePlan, target)
		if err != nil {
			return &BackendApplyFailedError{ResourceType: resourcePlan.ResourceType, Errors: []string{err.Error()}}
		}
		if !result.Success {
			return &BackendApplyFailedError{ResourceType: resourcePlan.ResourceType, Errors: result.Errors}
		}

		if err := mergo.Merge(&outputs, result.ResourceOutputs, mergo.WithOverride); err != nil {
			return errors.Wrap(err, "aggregating backend outputs")
		}
	}

	if plan.Workload == nil {
		return nil
	}

	resolvedEnv, refResult := reference.Resolve(plan.Workload.EnvironmentVariables, outputs)
	for _, issue := range refResult.Warnings {
		log.Warnf("%s", issue)
	}
	resolved := plan.Workload.WithEnvironmentVariables(resolvedEnv)

	runtimeName := e.runtimeName(plan.Platform, plan.EnvironmentConfig)
	runtime, ok := e.registry.Runtime(runtimeName)
	if !ok {
		log.Warnf("no runtime adapter %q registered, skipping workload deployment", runtimeName)
		return nil
	}

	manifest, err := runtime.Render(resolved)
	if err != nil {
		return errors.Wrapf(err, "rendering workload for runtime %q", runtimeName)
	}
	if err := runtime.Apply(ctx, manifest); err != nil {
		return errors.Wrapf(err, "deploying workload to runtime %q", runtimeName)
	}

	log.Infof("workload %s deployed to namespace %s", plan.AppName, resolved.Namespace)
	return nil
}

// Destroy reverses the deploy order: the workload first, then every backend
// named in the platform routing table. Teardown is best effort; failures are
// collected and reported together after every entry has been attempted.
func (e *Engine) Destroy(ctx context.Context, manifestPath, platformPath, environment string) error {
	m, err := config.Load(manifestPath)
	if err != nil {
		return err
	}
	platform, err := config.LoadPlatform(platformPath)
	if err != nil {
		return err
	}

	var failures []string

	namespace := platform.Defaults.ExpandNamespace(m.Name, environment)
	if runtime, ok := e.registry.Runtime(platform.Defaults.Runtime); ok {
		log.Infof("destroying workload in namespace %s", namespace)
		if err := runtime.Destroy(ctx, namespace); err != nil {
			log.Errorf("runtime destroy failed: %s", err)
			failures = append(failures, fmt.Sprintf("runtime %q: %s", platform.Defaults.Runtime, err))
		}
	} else {
		log.Warnf("no runtime adapter %q registered, skipping workload teardown", platform.Defaults.Runtime)
	}

	target := plugin.DeployTarget{AppName: m.Name, Environment: environment, Platform: platform}
	resourceTypes := make([]string, 0, len(platform.Backends))
	for resourceType := range platform.Backends {
		resourceTypes = append(resourceTypes, resourceType)
	}
	sort.Strings(resourceTypes)

	for _, resourceType := range resourceTypes {
		backendName := platform.Backends[resourceType]
		backend, ok := e.registry.Backend(backendName)
		if !ok {
			log.Warnf("backend adapter %q is not registered, skipping destroy for %q", backendName, resourceType)
			continue
		}
		log.Infof("destroying resource %q via backend %q", resourceType, backendName)
		if err := backend.Destroy(ctx, target); err != nil {
			log.Errorf("destroy failed for %q via %q: %s", resourceType, backendName, err)
			failures = append(failures, fmt.Sprintf("%s via %s: %s", resourceType, backendName, err))
		}
	}

	if len(failures) > 0 {
		return errors.Errorf("destroy completed with %d failure(s): %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

// load reads the three configuration documents. The environment overlay is
// optional; its absence is reported as a warning issue.
func (e *Engine) load(manifestPath, platformPath, environment string) (*config.Manifest, *config.PlatformConfig, *config.EnvironmentConfig, []config.Issue, error) {
	m, err := config.Load(manifestPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	platform, err := config.LoadPlatform(platformPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	envCfg, found, err := config.LoadEnvironment(platformPath, environment)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var warnings []config.Issue
	if !found {
		message := fmt.Sprintf("no overlay for environment %q, using platform defaults", environment)
		log.Warn(message)
		warnings = append(warnings, config.Issue{Kind: config.KindEnvOverlayMissing, Message: message})
	}
	return m, platform, envCfg, warnings, nil
}

func (e *Engine) runtimeName(platform *config.PlatformConfig, envCfg *config.EnvironmentConfig) string {
	if envCfg != nil && envCfg.Defaults.Runtime != nil && *envCfg.Defaults.Runtime != "" {
		return *envCfg.Defaults.Runtime
	}
	return platform.Defaults.Runtime
}
