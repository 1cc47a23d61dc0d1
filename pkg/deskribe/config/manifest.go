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

// Manifest is the developer-authored declaration of a service and the
// infrastructure resources it depends on.
type Manifest struct {
	Name      string    `json:"name"`
	Resources Resources `json:"resources,omitempty"`
	Services  []Service `json:"services,omitempty"`
}

// Service describes how the workload references its resources and which
// per-environment overrides the developer requested.
type Service struct {
	Name      string                     `json:"name,omitempty"`
	Env       map[string]string          `json:"env,omitempty"`
	Overrides map[string]ServiceOverride `json:"overrides,omitempty"`
}

// ServiceOverride carries the developer-overridable workload fields for a
// single environment. Unset fields leave the lower layers in effect.
type ServiceOverride struct {
	Replicas *int    `json:"replicas,omitempty"`
	CPU      *string `json:"cpu,omitempty"`
	Memory   *string `json:"memory,omitempty"`
}

// DefaultServiceName is the logical name assumed for an unnamed service when
// matching image overrides.
const DefaultServiceName = "api"

// PrimaryService returns the first declared service.
// Additional services are loaded but never merged or deployed.
func (m *Manifest) PrimaryService() (Service, bool) {
	if len(m.Services) == 0 {
		return Service{}, false
	}
	return m.Services[0], true
}

// DeclaredTypes returns the resource type tags in declaration order.
func (m *Manifest) DeclaredTypes() []string {
	out := make([]string, 0, len(m.Resources))
	for _, r := range m.Resources {
		out = append(out, r.ResourceType())
	}
	return out
}

// GetResource returns the declared resource for a type tag.
func (m *Manifest) GetResource(resourceType string) (Resource, bool) {
	for _, r := range m.Resources {
		if r.ResourceType() == resourceType {
			return r, true
		}
	}
	return nil, false
}
