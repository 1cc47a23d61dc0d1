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

// Package reference implements the @resource(<type>).<property> expression
// language embedded in workload environment variable values. References are
// opaque during planning and substituted with backend outputs during apply.
package reference

import (
	"regexp"
	"sort"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

var exprPattern = regexp.MustCompile(`@resource\(([A-Za-z0-9_.]+)\)\.([A-Za-z0-9_]+)`)

// Match is a single reference occurrence inside an env var value.
type Match struct {
	EnvVar       string
	Raw          string
	ResourceType string
	Property     string
}

// Extract scans every value of the env mapping and returns all reference
// occurrences. Order is deterministic: env var names lexically, then
// left-to-right within each value.
func Extract(env map[string]string) []Match {
	var out []Match
	for _, name := range sortedKeys(env) {
		for _, m := range exprPattern.FindAllStringSubmatch(env[name], -1) {
			out = append(out, Match{
				EnvVar:       name,
				Raw:          m[0],
				ResourceType: m[1],
				Property:     m[2],
			})
		}
	}
	return out
}

// Validate checks every reference against the set of declared resource types.
// All unknown targets are collected; the check does not short-circuit.
func Validate(env map[string]string, declaredTypes []string) config.ValidationResult {
	declared := map[string]bool{}
	for _, t := range declaredTypes {
		declared[t] = true
	}

	var result config.ValidationResult
	for _, m := range Extract(env) {
		if !declared[m.ResourceType] {
			result.AddError(config.KindReferenceUnknownType,
				"env var %q references undeclared resource type %q", m.EnvVar, m.ResourceType)
		}
	}
	return result
}

// Resolve returns a copy of the env mapping with every reference replaced by
// the corresponding backend output. A reference whose type or property is
// absent from the outputs is left verbatim and recorded as a warning. Values
// without references pass through unchanged. Resolution is idempotent.
func Resolve(env map[string]string, outputs map[string]map[string]string) (map[string]string, config.ValidationResult) {
	var result config.ValidationResult
	resolved := make(map[string]string, len(env))

	for _, name := range sortedKeys(env) {
		value := exprPattern.ReplaceAllStringFunc(env[name], func(raw string) string {
			m := exprPattern.FindStringSubmatch(raw)
			props, ok := outputs[m[1]]
			if !ok {
				result.AddWarning(config.KindReferenceUnresolved,
					"env var %q: no outputs for resource type %q", name, m[1])
				return raw
			}
			out, ok := props[m[2]]
			if !ok {
				result.AddWarning(config.KindReferenceUnresolved,
					"env var %q: resource %q has no output %q", name, m[1], m[2])
				return raw
			}
			// outputs commonly carry credentials; never log the value
			log.Debugf("resolved %s in env var %q to ***", raw, name)
			return out
		})
		resolved[name] = value
	}

	return resolved, result
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
