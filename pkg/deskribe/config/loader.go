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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deskribe/deskribe/pkg/deskribe/log"
	"github.com/pkg/errors"
)

const (
	// PlatformBaseFile is the platform base document under the platform dir.
	PlatformBaseFile = "base.json"

	// PlatformEnvsDir holds the per-environment overlays under the platform dir.
	PlatformEnvsDir = "envs"
)

// Load reads and decodes a developer manifest.
func Load(manifestPath string) (*Manifest, error) {
	data, err := readConfigFile(manifestPath)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := unmarshalConfig(manifestPath, data, &m); err != nil {
		return nil, err
	}

	if strings.TrimSpace(m.Name) == "" {
		return nil, &SchemaError{Path: manifestPath, Detail: "manifest is missing a name"}
	}
	if err := rejectDuplicateTypes(manifestPath, m.Resources); err != nil {
		return nil, err
	}

	log.Debugf("loaded manifest %s: %d resource(s), %d service(s)", m.Name, len(m.Resources), len(m.Services))
	return &m, nil
}

// LoadPlatform reads and decodes the platform base document from
// <platformPath>/base.json.
func LoadPlatform(platformPath string) (*PlatformConfig, error) {
	basePath := filepath.Join(platformPath, PlatformBaseFile)
	data, err := readConfigFile(basePath)
	if err != nil {
		return nil, err
	}

	var p PlatformConfig
	if err := unmarshalConfig(basePath, data, &p); err != nil {
		return nil, err
	}

	if p.Defaults.SecretsStrategy == "" {
		p.Defaults.SecretsStrategy = SecretsStrategyOpaque
	}
	return &p, nil
}

// LoadEnvironment reads the optional environment overlay from
// <platformPath>/envs/<env>.json. A missing overlay is not an error: a default
// overlay carrying only the environment name is returned with found=false so
// callers can surface a warning.
func LoadEnvironment(platformPath, env string) (*EnvironmentConfig, bool, error) {
	overlayPath := filepath.Join(platformPath, PlatformEnvsDir, fmt.Sprintf("%s.json", env))
	data, err := os.ReadFile(overlayPath)
	if os.IsNotExist(err) {
		return &EnvironmentConfig{Name: env}, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "cannot read %s", overlayPath)
	}

	var e EnvironmentConfig
	if err := unmarshalConfig(overlayPath, data, &e); err != nil {
		return nil, false, err
	}

	if e.Name != env {
		return nil, false, &SchemaError{
			Path:   overlayPath,
			Detail: fmt.Sprintf("overlay is named %q, expected %q", e.Name, env),
		}
	}
	return &e, true, nil
}

func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &MissingError{Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return data, nil
}

// unmarshalConfig decodes a document, keeping loader taxonomy errors raised by
// nested decoders intact and classifying everything else as a parse failure.
func unmarshalConfig(path string, data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	switch typed := err.(type) {
	case *SchemaError:
		if typed.Path == "" {
			typed.Path = path
		}
		return typed
	case *UnknownResourceTypeError:
		return typed
	default:
		return &ParseError{Path: path, Err: err}
	}
}

func rejectDuplicateTypes(path string, resources Resources) error {
	seen := map[string]bool{}
	for _, r := range resources {
		if seen[r.ResourceType()] {
			return &SchemaError{
				Path:   path,
				Detail: fmt.Sprintf("resource type %q is declared more than once", r.ResourceType()),
			}
		}
		seen[r.ResourceType()] = true
	}
	return nil
}
