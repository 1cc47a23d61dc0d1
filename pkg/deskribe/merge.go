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
	"github.com/deskribe/deskribe/pkg/deskribe/config"
)

// MergeWorkload computes the workload plan from the three configuration
// layers. Layering is present-wins: platform defaults first, then the
// environment overlay, then the developer's per-environment override for the
// fields a developer may override (replicas, cpu, memory).
func MergeWorkload(m *config.Manifest, platform *config.PlatformConfig, envCfg *config.EnvironmentConfig, environment string, images map[string]string) config.WorkloadPlan {
	defaults := platform.Defaults
	if envCfg != nil {
		defaults = defaults.WithOverlay(envCfg.Defaults)
	}

	plan := config.WorkloadPlan{
		AppName:              m.Name,
		Environment:          environment,
		Namespace:            defaults.ExpandNamespace(m.Name, environment),
		Replicas:             defaults.Replicas,
		CPU:                  defaults.CPU,
		Memory:               defaults.Memory,
		Region:               defaults.Region,
		HA:                   defaults.HA,
		SecretsStrategy:      defaults.SecretsStrategy,
		ExternalSecretsStore: defaults.ExternalSecretsStore,
	}

	svc, ok := m.PrimaryService()
	if !ok {
		return plan
	}

	if override, exists := svc.Overrides[environment]; exists {
		if override.Replicas != nil {
			plan.Replicas = *override.Replicas
		}
		if override.CPU != nil {
			plan.CPU = *override.CPU
		}
		if override.Memory != nil {
			plan.Memory = *override.Memory
		}
	}

	serviceName := svc.Name
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}
	if image, exists := images[serviceName]; exists {
		plan.Image = image
	}

	env := make(map[string]string, len(svc.Env))
	for name, value := range svc.Env {
		env[name] = value
	}
	plan.EnvironmentVariables = env

	return plan
}
