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

package config

import (
	"strings"

	"github.com/imdario/mergo"
)

// Secrets strategies accepted in platform defaults.
const (
	SecretsStrategyOpaque          = "opaque"
	SecretsStrategyExternalSecrets = "external-secrets"
	SecretsStrategySealedSecrets   = "sealed-secrets"
)

// PlatformConfig is the platform-team-authored base configuration:
// organization-wide defaults, backend routing and policies.
type PlatformConfig struct {
	Organization string            `json:"organization,omitempty"`
	Defaults     PlatformDefaults  `json:"defaults" validate:"required"`
	Backends     map[string]string `json:"backends,omitempty"`
	Policies     PlatformPolicies  `json:"policies,omitempty"`
}

// PlatformDefaults are the organization-wide workload defaults. The base
// document must be complete; per-environment overlays are partial.
type PlatformDefaults struct {
	Runtime              string `json:"runtime" validate:"required"`
	Region               string `json:"region,omitempty"`
	Replicas             int    `json:"replicas" validate:"min=0"`
	CPU                  string `json:"cpu,omitempty"`
	Memory               string `json:"memory,omitempty"`
	NamespacePattern     string `json:"namespacePattern" validate:"required"`
	HA                   bool   `json:"ha,omitempty"`
	SecretsStrategy      string `json:"secretsStrategy,omitempty" validate:"omitempty,oneof=opaque external-secrets sealed-secrets"`
	ExternalSecretsStore string `json:"externalSecretsStore,omitempty" validate:"required_if=SecretsStrategy external-secrets"`
}

// PlatformPolicies are the optional org-wide policy knobs enforced by the
// policy validator.
type PlatformPolicies struct {
	AllowedRegions []string `json:"allowedRegions,omitempty"`
	EnforceTLS     bool     `json:"enforceTls,omitempty"`
}

// EnvironmentConfig is the per-environment overlay on the platform base.
type EnvironmentConfig struct {
	Name         string              `json:"name" validate:"required"`
	Defaults     DefaultsOverlay     `json:"defaults,omitempty"`
	AlertRouting map[string][]string `json:"alertRouting,omitempty"`
	Backends     map[string]string   `json:"backends,omitempty"`
}

// DefaultsOverlay is the partial, present-wins shape of PlatformDefaults used
// by environment overlays. A nil field leaves the platform value in effect.
type DefaultsOverlay struct {
	Runtime              *string `json:"runtime,omitempty"`
	Region               *string `json:"region,omitempty"`
	Replicas             *int    `json:"replicas,omitempty"`
	CPU                  *string `json:"cpu,omitempty"`
	Memory               *string `json:"memory,omitempty"`
	NamespacePattern     *string `json:"namespacePattern,omitempty"`
	HA                   *bool   `json:"ha,omitempty"`
	SecretsStrategy      *string `json:"secretsStrategy,omitempty"`
	ExternalSecretsStore *string `json:"externalSecretsStore,omitempty"`
}

// WithOverlay returns a copy of the defaults with every present overlay field
// applied over the platform value.
func (d PlatformDefaults) WithOverlay(o DefaultsOverlay) PlatformDefaults {
	out := d
	if o.Runtime != nil {
		out.Runtime = *o.Runtime
	}
	if o.Region != nil {
		out.Region = *o.Region
	}
	if o.Replicas != nil {
		out.Replicas = *o.Replicas
	}
	if o.CPU != nil {
		out.CPU = *o.CPU
	}
	if o.Memory != nil {
		out.Memory = *o.Memory
	}
	if o.NamespacePattern != nil {
		out.NamespacePattern = *o.NamespacePattern
	}
	if o.HA != nil {
		out.HA = *o.HA
	}
	if o.SecretsStrategy != nil {
		out.SecretsStrategy = *o.SecretsStrategy
	}
	if o.ExternalSecretsStore != nil {
		out.ExternalSecretsStore = *o.ExternalSecretsStore
	}
	return out
}

// ExpandNamespace substitutes {app} and {env} in the namespace pattern.
// No other placeholders are recognised.
func (d PlatformDefaults) ExpandNamespace(appName, environment string) string {
	ns := strings.ReplaceAll(d.NamespacePattern, "{app}", appName)
	return strings.ReplaceAll(ns, "{env}", environment)
}

// EffectiveBackends returns the backend routing table with environment
// entries layered over the platform ones.
func (p *PlatformConfig) EffectiveBackends(env *EnvironmentConfig) map[string]string {
	out := map[string]string{}
	if err := mergo.Merge(&out, p.Backends, mergo.WithOverride); err != nil {
		return p.Backends
	}
	if env != nil {
		if err := mergo.Merge(&out, env.Backends, mergo.WithOverride); err != nil {
			return out
		}
	}
	return out
}

// BackendFor resolves the backend name routing a resource type, environment
// entries winning over platform ones.
func (p *PlatformConfig) BackendFor(env *EnvironmentConfig, resourceType string) (string, bool) {
	name, ok := p.EffectiveBackends(env)[resourceType]
	return name, ok && name != ""
}
