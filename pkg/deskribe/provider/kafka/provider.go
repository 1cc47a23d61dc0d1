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

// Package kafka implements the kafka.messaging resource provider together
// with its messaging capability: topic policy checks and ACL binding plans.
package kafka

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
)

const (
	defaultPartitions     = 3
	defaultRetentionHours = 168

	// recommendedPartitions is the floor below which the messaging policy
	// check warns about limited consumer parallelism.
	recommendedPartitions = 3
)

// Provider validates and plans kafka.messaging resources. It is registered
// both as a resource provider and as a messaging provider.
type Provider struct{}

// New returns a kafka messaging provider.
func New() *Provider {
	return &Provider{}
}

// Type returns the resource type tag the provider handles.
func (p *Provider) Type() string {
	return config.KafkaMessagingType
}

// Validate statically checks a kafka.messaging declaration.
func (p *Provider) Validate(resource config.Resource, vctx plugin.ValidateContext) config.ValidationResult {
	var result config.ValidationResult

	k, ok := resource.(config.KafkaMessaging)
	if !ok {
		result.AddError(config.KindProviderValidation, "resource %q is not a kafka.messaging declaration", resource.ResourceType())
		return result
	}

	if len(k.Topics) == 0 {
		result.AddWarning(config.KindProviderValidation, "kafka.messaging declares no topics")
	}
	for _, topic := range k.Topics {
		if strings.TrimSpace(topic.Name) == "" {
			result.AddError(config.KindProviderValidation, "kafka topic is missing a name")
		}
		if topic.Partitions < 0 {
			result.AddError(config.KindProviderValidation, "kafka topic %q: partitions must not be negative", topic.Name)
		}
		if topic.RetentionHours < 0 {
			result.AddError(config.KindProviderValidation, "kafka topic %q: retentionHours must not be negative", topic.Name)
		}
	}

	return result
}

// Plan projects a kafka.messaging declaration into a resource plan, filling
// in topic defaults.
func (p *Provider) Plan(resource config.Resource, pctx plugin.PlanContext) (config.ResourcePlanResult, error) {
	k, ok := resource.(config.KafkaMessaging)
	if !ok {
		return config.ResourcePlanResult{}, errors.Errorf("resource %q is not a kafka.messaging declaration", resource.ResourceType())
	}

	topics := make([]map[string]interface{}, 0, len(k.Topics))
	for _, topic := range k.Topics {
		partitions := topic.Partitions
		if partitions == 0 {
			partitions = defaultPartitions
		}
		retention := topic.RetentionHours
		if retention == 0 {
			retention = defaultRetentionHours
		}
		topics = append(topics, map[string]interface{}{
			"name":           topic.Name,
			"partitions":     partitions,
			"retentionHours": retention,
		})
	}

	return config.ResourcePlanResult{
		ResourceType: config.KafkaMessagingType,
		Action:       config.ActionCreate,
		PlannedOutputs: map[string]string{
			"brokers":           config.PendingOutput,
			"schemaRegistryUrl": config.PendingOutput,
		},
		Configuration: map[string]interface{}{
			"topics": topics,
			"region": pctx.Platform.Defaults.Region,
		},
	}, nil
}

// ValidateMessaging applies the messaging policy checks beyond the structural
// resource validation.
func (p *Provider) ValidateMessaging(resource config.Resource, vctx plugin.ValidateContext) config.ValidationResult {
	var result config.ValidationResult

	k, ok := resource.(config.KafkaMessaging)
	if !ok {
		return result
	}

	for _, topic := range k.Topics {
		if topic.Partitions > 0 && topic.Partitions < recommendedPartitions {
			result.AddWarning(config.KindMessagingPolicy,
				"kafka topic %q declares %d partition(s), fewer than the recommended %d", topic.Name, topic.Partitions, recommendedPartitions)
		}
		if len(topic.Owners) == 0 {
			result.AddWarning(config.KindMessagingPolicy, "kafka topic %q has no owners", topic.Name)
		}
	}

	return result
}

// PlanBindings projects the topic ACLs: owners get write access, consumers
// get read access.
func (p *Provider) PlanBindings(resource config.Resource, pctx plugin.PlanContext) ([]config.AccessBinding, error) {
	k, ok := resource.(config.KafkaMessaging)
	if !ok {
		return nil, errors.Errorf("resource %q is not a kafka.messaging declaration", resource.ResourceType())
	}

	var bindings []config.AccessBinding
	for _, topic := range k.Topics {
		for _, owner := range topic.Owners {
			bindings = append(bindings, config.AccessBinding{Topic: topic.Name, Principal: owner, Access: config.AccessWrite})
		}
		for _, consumer := range topic.Consumers {
			bindings = append(bindings, config.AccessBinding{Topic: topic.Name, Principal: consumer, Access: config.AccessRead})
		}
	}
	return bindings, nil
}
