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

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Resource type tags with a built-in decoder.
const (
	PostgresType       = "postgres"
	RedisType          = "redis"
	KafkaMessagingType = "kafka.messaging"
)

// Resource is a declared infrastructure dependency. Concrete variants are
// selected at decode time by the manifest's "type" tag.
type Resource interface {
	// ResourceType returns the type tag the resource was declared with.
	ResourceType() string

	// SizeTag returns the free-form size hint, or an empty string.
	SizeTag() string
}

// ResourceDecoder decodes a raw manifest resource object into its variant.
type ResourceDecoder func(data []byte) (Resource, error)

var resourceDecoders = map[string]ResourceDecoder{}

// RegisterResourceDecoder registers a decoder for a resource type tag.
// Provider plugins shipping their own resource variants call this at startup.
// Last registration wins.
func RegisterResourceDecoder(resourceType string, decode ResourceDecoder) {
	resourceDecoders[resourceType] = decode
}

func init() {
	RegisterResourceDecoder(PostgresType, func(data []byte) (Resource, error) {
		var r Postgres
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	})
	RegisterResourceDecoder(RedisType, func(data []byte) (Resource, error) {
		var r Redis
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	})
	RegisterResourceDecoder(KafkaMessagingType, func(data []byte) (Resource, error) {
		var r KafkaMessaging
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	})
}

// Postgres declares a relational database dependency.
type Postgres struct {
	Size    string `json:"size,omitempty"`
	Version string `json:"version,omitempty"`
	HA      bool   `json:"ha,omitempty"`
	SKU     string `json:"sku,omitempty"`
}

// ResourceType returns the postgres type tag.
func (Postgres) ResourceType() string { return PostgresType }

// SizeTag returns the declared size hint.
func (r Postgres) SizeTag() string { return r.Size }

// MarshalJSON emits the resource with its type tag.
func (r Postgres) MarshalJSON() ([]byte, error) {
	type alias Postgres
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: PostgresType, alias: alias(r)})
}

// Redis declares a cache dependency.
type Redis struct {
	Size        string `json:"size,omitempty"`
	Version     string `json:"version,omitempty"`
	HA          bool   `json:"ha,omitempty"`
	MaxMemoryMB int    `json:"maxMemoryMb,omitempty"`
}

// ResourceType returns the redis type tag.
func (Redis) ResourceType() string { return RedisType }

// SizeTag returns the declared size hint.
func (r Redis) SizeTag() string { return r.Size }

// MarshalJSON emits the resource with its type tag.
func (r Redis) MarshalJSON() ([]byte, error) {
	type alias Redis
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: RedisType, alias: alias(r)})
}

// KafkaMessaging declares a set of kafka topics the workload produces to or
// consumes from.
type KafkaMessaging struct {
	Size   string       `json:"size,omitempty"`
	Topics []KafkaTopic `json:"topics,omitempty"`
}

// KafkaTopic declares a single topic with its access principals.
type KafkaTopic struct {
	Name           string   `json:"name"`
	Partitions     int      `json:"partitions,omitempty"`
	RetentionHours int      `json:"retentionHours,omitempty"`
	Owners         []string `json:"owners,omitempty"`
	Consumers      []string `json:"consumers,omitempty"`
}

// ResourceType returns the kafka messaging type tag.
func (KafkaMessaging) ResourceType() string { return KafkaMessagingType }

// SizeTag returns the declared size hint.
func (r KafkaMessaging) SizeTag() string { return r.Size }

// MarshalJSON emits the resource with its type tag.
func (r KafkaMessaging) MarshalJSON() ([]byte, error) {
	type alias KafkaMessaging
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: KafkaMessagingType, alias: alias(r)})
}

// Resources is the ordered sequence of a manifest's declared resources.
type Resources []Resource

// UnmarshalJSON dispatches each raw resource object by its type tag.
func (r *Resources) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Resources, 0, len(raw))
	for i, item := range raw {
		res, err := decodeResource(item, i)
		if err != nil {
			return err
		}
		out = append(out, res)
	}
	*r = out
	return nil
}

func decodeResource(data []byte, index int) (Resource, error) {
	tag := typeTag(data)
	if strings.TrimSpace(tag) == "" {
		return nil, &SchemaError{Detail: "resource is missing a type"}
	}

	decode, ok := resourceDecoders[tag]
	if !ok {
		return nil, &UnknownResourceTypeError{Type: tag, Index: index}
	}
	return decode(data)
}

// typeTag probes the raw object for its "type" property. Property names are
// matched case-insensitively, like the rest of the manifest schema.
func typeTag(data []byte) string {
	var tag string
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(key.String(), "type") {
			tag = value.String()
			return false
		}
		return true
	})
	return tag
}
