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

package postgres_test

import (
	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
	"github.com/deskribe/deskribe/pkg/deskribe/provider/postgres"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var pctx = plugin.PlanContext{
	Platform:    &config.PlatformConfig{Defaults: config.PlatformDefaults{Region: "eu-west-1"}},
	Environment: "dev",
	AppName:     "svc",
}

var _ = Describe("Provider", func() {
	provider := postgres.New()

	Describe("Validate", func() {
		It("accepts supported versions", func() {
			result := provider.Validate(config.Postgres{Version: "16"}, plugin.ValidateContext{})
			Expect(result.IsValid()).To(BeTrue())
		})

		It("rejects unsupported versions", func() {
			result := provider.Validate(config.Postgres{Version: "9.6"}, plugin.ValidateContext{})
			Expect(result.IsValid()).To(BeFalse())
			Expect(result.Errors[0].Kind).To(Equal(config.KindProviderValidation))
		})

		It("warns about unmapped size tags", func() {
			result := provider.Validate(config.Postgres{Size: "xxl"}, plugin.ValidateContext{})
			Expect(result.IsValid()).To(BeTrue())
			Expect(result.Warnings).To(HaveLen(1))
		})
	})

	Describe("Plan", func() {
		It("projects defaults and size-derived sku", func() {
			plan, err := provider.Plan(config.Postgres{Size: "m", HA: true}, pctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(plan.ResourceType).To(Equal(config.PostgresType))
			Expect(plan.Action).To(Equal(config.ActionCreate))
			Expect(plan.PlannedOutputs).To(HaveKeyWithValue("connectionString", config.PendingOutput))
			Expect(plan.Configuration["version"]).To(Equal("16"))
			Expect(plan.Configuration["sku"]).To(Equal("db-standard-2"))
			Expect(plan.Configuration["ha"]).To(Equal(true))
			Expect(plan.Configuration["database"]).To(Equal("svc"))
		})

		It("prefers an explicit sku over the size mapping", func() {
			plan, err := provider.Plan(config.Postgres{Size: "m", SKU: "db-custom-8"}, pctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Configuration["sku"]).To(Equal("db-custom-8"))
		})
	})
})
