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

package reference_test

import (
	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/reference"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extract", func() {
	It("finds every reference with its env var and position order", func() {
		env := map[string]string{
			"DB":    "@resource(postgres).connectionString",
			"CACHE": "redis://@resource(redis).endpoint:@resource(redis).port",
			"PLAIN": "just-a-value",
		}

		matches := reference.Extract(env)
		Expect(matches).To(HaveLen(3))

		Expect(matches[0].EnvVar).To(Equal("CACHE"))
		Expect(matches[0].ResourceType).To(Equal("redis"))
		Expect(matches[0].Property).To(Equal("endpoint"))
		Expect(matches[1].EnvVar).To(Equal("CACHE"))
		Expect(matches[1].Property).To(Equal("port"))
		Expect(matches[2].EnvVar).To(Equal("DB"))
		Expect(matches[2].Raw).To(Equal("@resource(postgres).connectionString"))
	})

	It("handles dotted resource types", func() {
		matches := reference.Extract(map[string]string{
			"BROKERS": "@resource(kafka.messaging).brokers",
		})
		Expect(matches).To(HaveLen(1))
		Expect(matches[0].ResourceType).To(Equal("kafka.messaging"))
		Expect(matches[0].Property).To(Equal("brokers"))
	})

	It("returns nothing for reference-free values", func() {
		Expect(reference.Extract(map[string]string{"A": "plain", "B": "resource(x).y"})).To(BeEmpty())
	})
})

var _ = Describe("Validate", func() {
	It("accepts references to declared types", func() {
		result := reference.Validate(
			map[string]string{"DB": "@resource(postgres).connectionString"},
			[]string{"postgres"},
		)
		Expect(result.IsValid()).To(BeTrue())
	})

	It("collects every unknown target without short-circuiting", func() {
		result := reference.Validate(
			map[string]string{
				"CACHE": "@resource(redis).endpoint",
				"QUEUE": "@resource(rabbitmq).url",
			},
			[]string{"postgres"},
		)

		Expect(result.Errors).To(HaveLen(2))
		Expect(result.Errors[0].Kind).To(Equal(config.KindReferenceUnknownType))
		Expect(result.Errors[0].Message).To(ContainSubstring("CACHE"))
		Expect(result.Errors[0].Message).To(ContainSubstring("redis"))
		Expect(result.Errors[1].Message).To(ContainSubstring("QUEUE"))
		Expect(result.Errors[1].Message).To(ContainSubstring("rabbitmq"))
	})
})

var _ = Describe("Resolve", func() {
	outputs := map[string]map[string]string{
		"postgres": {"connectionString": "postgresql://db:5432/app"},
		"redis":    {"endpoint": "cache.internal", "port": "6379"},
	}

	It("replaces every reference with its backend output", func() {
		resolved, result := reference.Resolve(map[string]string{
			"DB":    "@resource(postgres).connectionString",
			"CACHE": "redis://@resource(redis).endpoint:@resource(redis).port",
		}, outputs)

		Expect(result.Warnings).To(BeEmpty())
		Expect(resolved["DB"]).To(Equal("postgresql://db:5432/app"))
		Expect(resolved["CACHE"]).To(Equal("redis://cache.internal:6379"))
	})

	It("replaces duplicate references in the same value", func() {
		resolved, _ := reference.Resolve(map[string]string{
			"BOTH": "@resource(redis).port and @resource(redis).port",
		}, outputs)
		Expect(resolved["BOTH"]).To(Equal("6379 and 6379"))
	})

	It("passes reference-free values through unchanged", func() {
		resolved, result := reference.Resolve(map[string]string{"PLAIN": "value"}, outputs)
		Expect(result.Warnings).To(BeEmpty())
		Expect(resolved["PLAIN"]).To(Equal("value"))
	})

	It("leaves unresolvable references verbatim with a warning", func() {
		resolved, result := reference.Resolve(map[string]string{
			"HOST": "@resource(postgres).host",
		}, outputs)

		Expect(resolved["HOST"]).To(Equal("@resource(postgres).host"))
		Expect(result.Warnings).To(HaveLen(1))
		Expect(result.Warnings[0].Kind).To(Equal(config.KindReferenceUnresolved))
		Expect(result.Warnings[0].Message).To(ContainSubstring("HOST"))
	})

	It("warns when the resource type has no outputs at all", func() {
		resolved, result := reference.Resolve(map[string]string{
			"BROKERS": "@resource(kafka.messaging).brokers",
		}, outputs)

		Expect(resolved["BROKERS"]).To(Equal("@resource(kafka.messaging).brokers"))
		Expect(result.Warnings).To(HaveLen(1))
	})

	It("is idempotent", func() {
		env := map[string]string{
			"DB":   "@resource(postgres).connectionString",
			"HOST": "@resource(postgres).host",
		}
		once, _ := reference.Resolve(env, outputs)
		twice, _ := reference.Resolve(once, outputs)
		Expect(twice).To(Equal(once))
	})

	It("does not mutate its input", func() {
		env := map[string]string{"DB": "@resource(postgres).connectionString"}
		_, _ = reference.Resolve(env, outputs)
		Expect(env["DB"]).To(Equal("@resource(postgres).connectionString"))
	})
})
