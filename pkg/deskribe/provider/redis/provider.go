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

package redis

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
)

const defaultVersion = "7.2"

var maxMemoryBySize = map[string]int{
	"s": 256,
	"m": 1024,
	"l": 4096,
}

// Provider validates and plans redis resources.
type Provider struct{}

// New returns a redis resource provider.
func New() *Provider {
	return &Provider{}
}

// Type returns the resource type tag the provider handles.
func (p *Provider) Type() string {
	return config.RedisType
}

// Validate statically checks a redis declaration.
func (p *Provider) Validate(resource config.Resource, vctx plugin.ValidateContext) config.ValidationResult {
	var result config.ValidationResult

	r, ok := resource.(config.Redis)
	if !ok {
		result.AddError(config.KindProviderValidation, "resource %q is not a redis declaration", resource.ResourceType())
		return result
	}

	if r.MaxMemoryMB < 0 {
		result.AddError(config.KindProviderValidation, "redis maxMemoryMb must not be negative")
	}
	if r.Size != "" && r.MaxMemoryMB == 0 {
		if _, known := maxMemoryBySize[strings.ToLower(r.Size)]; !known {
			result.AddWarning(config.KindProviderValidation,
				"redis size %q has no memory mapping, the default applies", r.Size)
		}
	}

	return result
}

// Plan projects a redis declaration into a resource plan.
func (p *Provider) Plan(resource config.Resource, pctx plugin.PlanContext) (config.ResourcePlanResult, error) {
	r, ok := resource.(config.Redis)
	if !ok {
		return config.ResourcePlanResult{}, errors.Errorf("resource %q is not a redis declaration", resource.ResourceType())
	}

	version := r.Version
	if version == "" {
		version = defaultVersion
	}
	maxMemory := r.MaxMemoryMB
	if maxMemory == 0 {
		if mapped, known := maxMemoryBySize[strings.ToLower(r.Size)]; known {
			maxMemory = mapped
		} else {
			maxMemory = maxMemoryBySize["s"]
		}
	}

	return config.ResourcePlanResult{
		ResourceType: config.RedisType,
		Action:       config.ActionCreate,
		PlannedOutputs: map[string]string{
			"endpoint": config.PendingOutput,
			"port":     config.PendingOutput,
			"password": config.PendingOutput,
		},
		Configuration: map[string]interface{}{
			"version":     version,
			"maxMemoryMb": maxMemory,
			"ha":          r.HA,
			"region":      pctx.Platform.Defaults.Region,
		},
	}, nil
}
