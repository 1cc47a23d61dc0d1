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

package postgres

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
)

const defaultVersion = "16"

var supportedVersions = []string{"13", "14", "15", "16"}

var skuBySize = map[string]string{
	"s": "db-standard-1",
	"m": "db-standard-2",
	"l": "db-standard-4",
}

// Provider validates and plans postgres resources.
type Provider struct{}

// New returns a postgres resource provider.
func New() *Provider {
	return &Provider{}
}

// Type returns the resource type tag the provider handles.
func (p *Provider) Type() string {
	return config.PostgresType
}

// Validate statically checks a postgres declaration.
func (p *Provider) Validate(resource config.Resource, vctx plugin.ValidateContext) config.ValidationResult {
	var result config.ValidationResult

	pg, ok := resource.(config.Postgres)
	if !ok {
		result.AddError(config.KindProviderValidation, "resource %q is not a postgres declaration", resource.ResourceType())
		return result
	}

	if pg.Version != "" && !contains(supportedVersions, pg.Version) {
		result.AddError(config.KindProviderValidation,
			"postgres version %q is not supported, choose one of %v", pg.Version, supportedVersions)
	}
	if pg.Size != "" && pg.SKU == "" {
		if _, known := skuBySize[strings.ToLower(pg.Size)]; !known {
			result.AddWarning(config.KindProviderValidation,
				"postgres size %q has no sku mapping, the default sku applies", pg.Size)
		}
	}

	return result
}

// Plan projects a postgres declaration into a resource plan.
func (p *Provider) Plan(resource config.Resource, pctx plugin.PlanContext) (config.ResourcePlanResult, error) {
	pg, ok := resource.(config.Postgres)
	if !ok {
		return config.ResourcePlanResult{}, errors.Errorf("resource %q is not a postgres declaration", resource.ResourceType())
	}

	version := pg.Version
	if version == "" {
		version = defaultVersion
	}
	sku := pg.SKU
	if sku == "" {
		if mapped, known := skuBySize[strings.ToLower(pg.Size)]; known {
			sku = mapped
		} else {
			sku = skuBySize["s"]
		}
	}

	return config.ResourcePlanResult{
		ResourceType: config.PostgresType,
		Action:       config.ActionCreate,
		PlannedOutputs: map[string]string{
			"connectionString": config.PendingOutput,
			"host":             config.PendingOutput,
			"port":             config.PendingOutput,
			"database":         config.PendingOutput,
		},
		Configuration: map[string]interface{}{
			"version":  version,
			"sku":      sku,
			"ha":       pg.HA,
			"database": pctx.AppName,
			"region":   pctx.Platform.Defaults.Region,
		},
	}, nil
}

func contains(src []string, s string) bool {
	for _, candidate := range src {
		if candidate == s {
			return true
		}
	}
	return false
}
