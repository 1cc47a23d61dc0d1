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

package dummy_test

import (
	"context"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/runtime/dummy"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"
)

var workload = config.WorkloadPlan{
	AppName:         "svc",
	Environment:     "dev",
	Namespace:       "svc-dev",
	Image:           "registry.example.com/svc:1.0",
	Replicas:        2,
	CPU:             "250m",
	Memory:          "512Mi",
	SecretsStrategy: config.SecretsStrategyOpaque,
	EnvironmentVariables: map[string]string{
		"DB":        "postgresql://app:secret@db:5432/svc",
		"LOG_LEVEL": "info",
	},
}

var _ = Describe("Runtime", func() {
	var runtime *dummy.Runtime

	BeforeEach(func() {
		runtime = dummy.New()
	})

	Describe("Render", func() {
		It("produces a deployment document for the namespace", func() {
			manifest, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())

			Expect(manifest.Namespace).To(Equal("svc-dev"))
			Expect(manifest.ResourceNames).To(Equal([]string{"deployment/svc"}))

			var doc map[string]interface{}
			Expect(yaml.Unmarshal(manifest.YAML, &doc)).To(Succeed())

			metadata := doc["metadata"].(map[string]interface{})
			Expect(metadata["name"]).To(Equal("svc"))
			Expect(metadata["namespace"]).To(Equal("svc-dev"))

			spec := doc["spec"].(map[string]interface{})
			Expect(spec["replicas"]).To(Equal(2))

			container := spec["template"].(map[string]interface{})["spec"].(map[string]interface{})["containers"].([]interface{})[0].(map[string]interface{})
			Expect(container["image"]).To(Equal("registry.example.com/svc:1.0"))

			env := container["env"].([]interface{})
			Expect(env).To(HaveLen(2))
			first := env[0].(map[string]interface{})
			Expect(first["name"]).To(Equal("DB"))
			Expect(first["value"]).To(Equal("postgresql://app:secret@db:5432/svc"))
		})

		It("is a pure function of the workload", func() {
			first, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())
			second, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("Apply and Destroy", func() {
		It("is create-or-update on repeated applies", func() {
			manifest, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())

			Expect(runtime.Apply(context.Background(), manifest)).To(Succeed())
			Expect(runtime.Apply(context.Background(), manifest)).To(Succeed())

			deployed, ok := runtime.Deployed("svc-dev")
			Expect(ok).To(BeTrue())
			Expect(deployed).To(Equal(manifest.YAML))
		})

		It("destroys idempotently", func() {
			manifest, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())
			Expect(runtime.Apply(context.Background(), manifest)).To(Succeed())

			Expect(runtime.Destroy(context.Background(), "svc-dev")).To(Succeed())
			Expect(runtime.Destroy(context.Background(), "svc-dev")).To(Succeed())

			_, ok := runtime.Deployed("svc-dev")
			Expect(ok).To(BeFalse())
		})

		It("honours a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			manifest, err := runtime.Render(workload)
			Expect(err).NotTo(HaveOccurred())
			Expect(runtime.Apply(ctx, manifest)).NotTo(Succeed())
		})
	})
})
