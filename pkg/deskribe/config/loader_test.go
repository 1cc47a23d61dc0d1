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
	"github.com/deskribe/deskribe/pkg/deskribe/config"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	Context("with a valid manifest", func() {
		var manifest *config.Manifest

		BeforeEach(func() {
			var err error
			manifest, err = config.Load("testdata/valid/deskribe.json")
			Expect(err).NotTo(HaveOccurred())
		})

		It("decodes the manifest name", func() {
			Expect(manifest.Name).To(Equal("checkout"))
		})

		It("preserves resource declaration order", func() {
			Expect(manifest.DeclaredTypes()).To(Equal([]string{"postgres", "redis", "kafka.messaging"}))
		})

		It("dispatches resources to their variants", func() {
			pg, ok := manifest.Resources[0].(config.Postgres)
			Expect(ok).To(BeTrue())
			Expect(pg.Version).To(Equal("16"))
			Expect(pg.HA).To(BeTrue())
			Expect(pg.SizeTag()).To(Equal("m"))

			kafka, ok := manifest.Resources[2].(config.KafkaMessaging)
			Expect(ok).To(BeTrue())
			Expect(kafka.Topics).To(HaveLen(1))
			Expect(kafka.Topics[0].Name).To(Equal("orders"))
			Expect(kafka.Topics[0].Owners).To(Equal([]string{"checkout"}))
			Expect(kafka.Topics[0].Consumers).To(Equal([]string{"billing", "shipping"}))
		})

		It("decodes the service env and overrides", func() {
			svc, ok := manifest.PrimaryService()
			Expect(ok).To(BeTrue())
			Expect(svc.Env).To(HaveKeyWithValue("DB_URL", "@resource(postgres).connectionString"))
			Expect(svc.Overrides).To(HaveKey("prod"))
			Expect(*svc.Overrides["prod"].Replicas).To(Equal(5))
			Expect(svc.Overrides["prod"].Memory).To(BeNil())
		})
	})

	Context("with a missing file", func() {
		It("fails with a missing config error", func() {
			_, err := config.Load("testdata/valid/nope.json")
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&config.MissingError{}))
		})
	})

	Context("with malformed JSON", func() {
		It("fails with a parse error", func() {
			_, err := config.Load("testdata/broken/malformed.json")
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&config.ParseError{}))
		})
	})

	Context("with an unknown resource type", func() {
		It("fails naming the offending type and position", func() {
			_, err := config.Load("testdata/broken/unknown-type.json")
			Expect(err).To(HaveOccurred())

			typed, ok := err.(*config.UnknownResourceTypeError)
			Expect(ok).To(BeTrue())
			Expect(typed.Type).To(Equal("mongodb"))
			Expect(typed.Index).To(Equal(1))
		})
	})

	Context("with schema violations", func() {
		It("rejects a manifest without a name", func() {
			_, err := config.Load("testdata/broken/missing-name.json")
			Expect(err).To(BeAssignableToTypeOf(&config.SchemaError{}))
		})

		It("rejects a resource without a type", func() {
			_, err := config.Load("testdata/broken/missing-type.json")
			Expect(err).To(BeAssignableToTypeOf(&config.SchemaError{}))
		})

		It("rejects duplicate resource types", func() {
			_, err := config.Load("testdata/broken/duplicate-type.json")
			Expect(err).To(BeAssignableToTypeOf(&config.SchemaError{}))
			Expect(err.Error()).To(ContainSubstring("postgres"))
		})
	})
})

var _ = Describe("LoadPlatform", func() {
	It("decodes the platform base document", func() {
		platform, err := config.LoadPlatform("testdata/valid/platform")
		Expect(err).NotTo(HaveOccurred())

		Expect(platform.Organization).To(Equal("acme"))
		Expect(platform.Defaults.Runtime).To(Equal("kubernetes"))
		Expect(platform.Defaults.Replicas).To(Equal(2))
		Expect(platform.Backends).To(HaveKeyWithValue("postgres", "pulumi"))
		Expect(platform.Policies.AllowedRegions).To(ContainElement("eu-west-1"))
		Expect(platform.Policies.EnforceTLS).To(BeTrue())
	})

	It("defaults the secrets strategy to opaque", func() {
		platform, err := config.LoadPlatform("testdata/valid/platform")
		Expect(err).NotTo(HaveOccurred())
		Expect(platform.Defaults.SecretsStrategy).To(Equal(config.SecretsStrategyOpaque))
	})

	It("fails when the base document is missing", func() {
		_, err := config.LoadPlatform("testdata/broken")
		Expect(err).To(BeAssignableToTypeOf(&config.MissingError{}))
	})
})

var _ = Describe("LoadEnvironment", func() {
	Context("with an existing overlay", func() {
		It("decodes the partial defaults", func() {
			envCfg, found, err := config.LoadEnvironment("testdata/valid/platform", "prod")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())

			Expect(envCfg.Name).To(Equal("prod"))
			Expect(*envCfg.Defaults.Replicas).To(Equal(3))
			Expect(*envCfg.Defaults.Memory).To(Equal("1Gi"))
			Expect(*envCfg.Defaults.HA).To(BeTrue())
			Expect(envCfg.Defaults.CPU).To(BeNil())
			Expect(envCfg.Backends).To(HaveKeyWithValue("postgres", "helm"))
			Expect(envCfg.AlertRouting).To(HaveKeyWithValue("critical", []string{"pagerduty", "slack-oncall"}))
		})
	})

	Context("with a missing overlay", func() {
		It("returns a default overlay carrying only the name", func() {
			envCfg, found, err := config.LoadEnvironment("testdata/valid/platform", "staging")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())

			Expect(envCfg.Name).To(Equal("staging"))
			Expect(envCfg.Defaults).To(Equal(config.DefaultsOverlay{}))
			Expect(envCfg.Backends).To(BeEmpty())
		})
	})
})
