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
	"sort"

	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

// Registry holds the adapter capability tables. It is populated during
// startup and read-only afterwards; commands never mutate it.
type Registry struct {
	providers map[string]ResourceProvider
	backends  map[string]BackendAdapter
	runtimes  map[string]RuntimeAdapter
	messaging map[string]MessagingProvider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: map[string]ResourceProvider{},
		backends:  map[string]BackendAdapter{},
		runtimes:  map[string]RuntimeAdapter{},
		messaging: map[string]MessagingProvider{},
	}
}

// RegisterProvider registers a resource provider under its type.
// Last registration wins.
func (r *Registry) RegisterProvider(p ResourceProvider) {
	if _, exists := r.providers[p.Type()]; exists {
		log.Warnf("resource provider %q registered more than once, last wins", p.Type())
	}
	r.providers[p.Type()] = p
}

// RegisterBackend registers a backend adapter under its name.
// Last registration wins.
func (r *Registry) RegisterBackend(b BackendAdapter) {
	if _, exists := r.backends[b.Name()]; exists {
		log.Warnf("backend adapter %q registered more than once, last wins", b.Name())
	}
	r.backends[b.Name()] = b
}

// RegisterRuntime registers a runtime adapter under its name.
// Last registration wins.
func (r *Registry) RegisterRuntime(rt RuntimeAdapter) {
	if _, exists := r.runtimes[rt.Name()]; exists {
		log.Warnf("runtime adapter %q registered more than once, last wins", rt.Name())
	}
	r.runtimes[rt.Name()] = rt
}

// RegisterMessaging registers a messaging provider under its type.
// Last registration wins.
func (r *Registry) RegisterMessaging(m MessagingProvider) {
	if _, exists := r.messaging[m.Type()]; exists {
		log.Warnf("messaging provider %q registered more than once, last wins", m.Type())
	}
	r.messaging[m.Type()] = m
}

// Provider looks up a resource provider by type.
func (r *Registry) Provider(resourceType string) (ResourceProvider, bool) {
	p, ok := r.providers[resourceType]
	return p, ok
}

// Backend looks up a backend adapter by name.
func (r *Registry) Backend(name string) (BackendAdapter, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Runtime looks up a runtime adapter by name.
func (r *Registry) Runtime(name string) (RuntimeAdapter, bool) {
	rt, ok := r.runtimes[name]
	return rt, ok
}

// Messaging looks up a messaging provider by type.
func (r *Registry) Messaging(resourceType string) (MessagingProvider, bool) {
	m, ok := r.messaging[resourceType]
	return m, ok
}

// ProviderTypes returns the sorted set of registered resource provider types.
func (r *Registry) ProviderTypes() []string {
	out := make([]string, 0, len(r.providers))
	for t := range r.providers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// defaultRegistry is the process-wide registry the top-level API operates on.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterProvider registers a resource provider on the default registry.
func RegisterProvider(p ResourceProvider) { defaultRegistry.RegisterProvider(p) }

// RegisterBackend registers a backend adapter on the default registry.
func RegisterBackend(b BackendAdapter) { defaultRegistry.RegisterBackend(b) }

// RegisterRuntime registers a runtime adapter on the default registry.
func RegisterRuntime(rt RuntimeAdapter) { defaultRegistry.RegisterRuntime(rt) }

// RegisterMessaging registers a messaging provider on the default registry.
func RegisterMessaging(m MessagingProvider) { defaultRegistry.RegisterMessaging(m) }
