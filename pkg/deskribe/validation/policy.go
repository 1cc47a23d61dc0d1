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

// Package validation implements the static policy checks run on the merged
// configuration before any resource provider is consulted.
package validation

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/reference"
)

// ValidatePolicies runs the platform policy checks against a manifest and its
// layered configuration. All findings are collected; nothing short-circuits.
func ValidatePolicies(m *config.Manifest, platform *config.PlatformConfig, envCfg *config.EnvironmentConfig) config.ValidationResult {
	var result config.ValidationResult

	merged := platform.Defaults
	if envCfg != nil {
		merged = merged.WithOverlay(envCfg.Defaults)
	}

	validatePlatformSchema(platform, merged, &result)

	if strings.TrimSpace(m.Name) == "" {
		result.AddError(config.KindPolicyMissingName, "manifest name must be set")
	}

	for _, resourceType := range m.DeclaredTypes() {
		if _, ok := platform.BackendFor(envCfg, resourceType); !ok {
			result.AddWarning(config.KindPolicyNoBackend,
				"no backend configured for resource type %q", resourceType)
		}
	}

	// legacy cross-check of env references against declared types; the engine
	// re-runs the reference validator and dedupes identical findings
	if svc, ok := m.PrimaryService(); ok {
		result.Append(reference.Validate(svc.Env, m.DeclaredTypes()))
		validateTLSPolicy(platform, svc.Env, &result)
	}

	if regions := platform.Policies.AllowedRegions; len(regions) > 0 && !containsString(regions, merged.Region) {
		result.AddError(config.KindPolicyRegionDenied,
			"region %q is not in the allowed regions %v", merged.Region, regions)
	}

	return result
}

// validatePlatformSchema runs the declarative struct validation over the
// platform document with the environment overlay applied, converting field
// errors into aggregated issues.
func validatePlatformSchema(platform *config.PlatformConfig, merged config.PlatformDefaults, result *config.ValidationResult) {
	checked := *platform
	checked.Defaults = merged

	err := validator.New().Struct(checked)
	if err == nil {
		return
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result.AddError(config.KindPolicySchema, "platform config: %s", err)
		return
	}

	for _, fe := range fieldErrors {
		switch fe.Field() {
		case "ExternalSecretsStore":
			result.AddError(config.KindPolicySecretsStore,
				"secrets strategy %q requires externalSecretsStore to be set", merged.SecretsStrategy)
		case "SecretsStrategy":
			result.AddError(config.KindPolicySecretsStore,
				"unsupported secrets strategy %q", merged.SecretsStrategy)
		default:
			result.AddError(config.KindPolicySchema,
				"platform config: %s failed %q validation", fe.StructNamespace(), fe.Tag())
		}
	}
}

// validateTLSPolicy flags plaintext endpoints referenced by the workload when
// the platform enforces TLS.
func validateTLSPolicy(platform *config.PlatformConfig, env map[string]string, result *config.ValidationResult) {
	if !platform.Policies.EnforceTLS {
		return
	}
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.Contains(env[name], "http://") {
			result.AddWarning(config.KindPolicyTLSRequired,
				"env var %q uses a plaintext http endpoint while enforceTls is set", name)
		}
	}
}

func containsString(src []string, s string) bool {
	for _, candidate := range src {
		if candidate == s {
			return true
		}
	}
	return false
}
