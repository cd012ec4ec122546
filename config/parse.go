/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/identity/mode"
)

// document is the YAML shape of a configuration file:
//
//	strict: true
//	debounce: 150ms
//	require_identity_key: false
//	identity:
//	  mode: lru
//	  cache_size: 5000
//	workers: 4
//
// Absent keys keep their defaults.
type document struct {
	Strict             *bool   `yaml:"strict"`
	Debounce           *string `yaml:"debounce"`
	RequireIdentityKey *bool   `yaml:"require_identity_key"`
	Identity           struct {
		Mode      *mode.Mode `yaml:"mode"`
		CacheSize *int       `yaml:"cache_size"`
	} `yaml:"identity"`
	Workers *int `yaml:"workers"`
}

// Parse decodes a YAML configuration on top of the defaults, then applies
// opts. Unknown keys are rejected. The error handler cannot be expressed in
// YAML; pass WithErrorHandler.
func Parse(data []byte, opts ...Option) (apis.Config, error) {
	cfg := DefaultConfig()

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("listfx(config): %w", err)
	}

	if doc.Strict != nil {
		cfg.Strict = *doc.Strict
	}
	if doc.Debounce != nil {
		d, err := time.ParseDuration(*doc.Debounce)
		if err != nil {
			return apis.Config{}, fmt.Errorf("listfx(config): debounce: %w", err)
		}
		cfg.Debounce = d
	}
	if doc.RequireIdentityKey != nil {
		cfg.RequireIdentityKey = *doc.RequireIdentityKey
	}
	if doc.Identity.Mode != nil {
		cfg.IdentityStrategy = *doc.Identity.Mode
	}
	if doc.Identity.CacheSize != nil {
		cfg.IdentityCacheSize = *doc.Identity.CacheSize
	}
	if doc.Workers != nil {
		cfg.Workers = *doc.Workers
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return normalize(cfg), nil
}

// Load reads and parses a configuration file.
func Load(path string, opts ...Option) (apis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("listfx(config): %w", err)
	}
	return Parse(data, opts...)
}
