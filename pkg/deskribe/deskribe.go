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

// Package deskribe implements the manifest orchestration engine: the layered
// configuration merge, the four-phase pipeline (Load, Validate, Plan,
// Apply/Destroy) and the adapter dispatch that drives all commands.
package deskribe

import (
	"context"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
)

// Validate runs the validation phase against the default registry.
func Validate(manifestPath, platformPath, environment string) (config.ValidationResult, error) {
	return NewEngine(plugin.DefaultRegistry()).Validate(manifestPath, platformPath, environment)
}

// Plan computes an execution plan against the default registry. The optional
// images mapping selects the workload image by service name.
func Plan(manifestPath, platformPath, environment string, images map[string]string) (*config.DeskribePlan, error) {
	return NewEngine(plugin.DefaultRegistry()).Plan(manifestPath, platformPath, environment, images)
}

// Apply provisions a previously computed plan against the default registry.
func Apply(ctx context.Context, plan *config.DeskribePlan) error {
	return NewEngine(plugin.DefaultRegistry()).Apply(ctx, plan)
}

// Destroy tears down the workload and its resources against the default
// registry.
func Destroy(ctx context.Context, manifestPath, platformPath, environment string) error {
	return NewEngine(plugin.DefaultRegistry()).Destroy(ctx, manifestPath, platformPath, environment)
}
