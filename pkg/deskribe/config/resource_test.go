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

package config_test

import (
	"encoding/json"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resources", func() {
	Context("round-tripping a manifest", func() {
		It("yields an equal record after serialize and reload", func() {
			original, err := config.Load("testdata/valid/deskribe.json")
			Expect(err).NotTo(HaveOccurred())

			data, err := json.Marshal(original)
			Expect(err).NotTo(HaveOccurred())

			var reloaded config.Manifest
			Expect(json.Unmarshal(data, &reloaded)).To(Succeed())

			Expect(cmp.Diff(*original, reloaded)).To(BeEmpty())
		})
	})

	Context("decoding", func() {
		It("matches property names case-insensitively", func() {
			var resources config.Resources
			err := json.Unmarshal([]byte(`[{"Type": "postgres", "VERSION": "15", "Ha": true}]`), &resources)
			Expect(err).NotTo(HaveOccurred())

			pg, ok := resources[0].(config.Postgres)
			Expect(ok).To(BeTrue())
			Expect(pg.Version).To(Equal("15"))
			Expect(pg.HA).To(BeTrue())
		})

		It("ignores unknown properties", func() {
			var resources config.Resources
			err := json.Unmarshal([]byte(`[{"type": "redis", "flavour": "hot"}]`), &resources)
			Expect(err).NotTo(HaveOccurred())
			Expect(resources[0].ResourceType()).To(Equal(config.RedisType))
		})
	})
})

var _ = Describe("PlatformDefaults", func() {
	defaults := config.PlatformDefaults{
		Runtime:          "kubernetes",
		Region:           "eu-west-1",
		Replicas:         2,
		CPU:              "250m",
		Memory:           "512Mi",
		NamespacePattern: "{app}-{env}",
		SecretsStrategy:  config.SecretsStrategyOpaque,
	}

	Describe("WithOverlay", func() {
		It("applies present fields only", func() {
			replicas := 3
			memory := "1Gi"
			ha := true

			merged := defaults.WithOverlay(config.DefaultsOverlay{
				Replicas: &replicas,
				Memory:   &memory,
				HA:       &ha,
			})

			Expect(merged.Replicas).To(Equal(3))
			Expect(merged.Memory).To(Equal("1Gi"))
			Expect(merged.HA).To(BeTrue())
			Expect(merged.CPU).To(Equal("250m"))
			Expect(merged.Region).To(Equal("eu-west-1"))
		})

		It("treats a present zero value as set", func() {
			replicas := 0
			merged := defaults.WithOverlay(config.DefaultsOverlay{Replicas: &replicas})
			Expect(merged.Replicas).To(Equal(0))
		})
	})

	Describe("ExpandNamespace", func() {
		It("substitutes the app and env placeholders literally", func() {
			Expect(defaults.ExpandNamespace("svc", "dev")).To(Equal("svc-dev"))
		})

		It("substitutes nothing else", func() {
			other := defaults
			other.NamespacePattern = "{app}-{env}-{region}"
			Expect(other.ExpandNamespace("svc", "dev")).To(Equal("svc-dev-{region}"))
		})
	})
})

var _ = Describe("EffectiveBackends", func() {
	platform := &config.PlatformConfig{
		Backends: map[string]string{"postgres": "pulumi", "redis": "pulumi"},
	}

	It("returns the platform routing without an overlay", func() {
		Expect(platform.EffectiveBackends(nil)).To(Equal(map[string]string{
			"postgres": "pulumi",
			"redis":    "pulumi",
		}))
	})

	It("lets the environment win on conflicts", func() {
		envCfg := &config.EnvironmentConfig{
			Name:     "prod",
			Backends: map[string]string{"postgres": "helm", "kafka.messaging": "terraform"},
		}
		Expect(platform.EffectiveBackends(envCfg)).To(Equal(map[string]string{
			"postgres":        "helm",
			"redis":           "pulumi",
			"kafka.messaging": "terraform",
		}))
	})
})
