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
	"time"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/identity/mode"
)

const (
	// DefaultStrict represents the default for Strict.
	// Lenient: data errors are reported and skipped.
	DefaultStrict = false
	// DefaultIdentityStrategy represents the default for IdentityStrategy.
	DefaultIdentityStrategy = mode.LRU
	// DefaultIdentityCacheSize represents the default for IdentityCacheSize.
	DefaultIdentityCacheSize = identity.DefaultSize
	// DefaultWorkers represents the default for Workers.
	// Zero selects max(2, NumCPU+1).
	DefaultWorkers = 0
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Strict:            DefaultStrict,
		IdentityStrategy:  DefaultIdentityStrategy,
		IdentityCacheSize: DefaultIdentityCacheSize,
		Workers:           DefaultWorkers,
	}
}

func normalize(cfg apis.Config) apis.Config {
	if cfg.IdentityCacheSize <= 0 {
		cfg.IdentityCacheSize = DefaultIdentityCacheSize
	}
	if cfg.Workers < 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithStrict sets the Strict option.
func WithStrict(strict bool) Option {
	return func(c *apis.Config) {
		c.Strict = strict
	}
}

// WithErrorHandler sets the handler receiving data errors in lenient mode.
func WithErrorHandler(h apis.ErrorHandler) Option {
	return func(c *apis.Config) {
		c.OnError = h
	}
}

// WithDebounce sets the Debounce option.
func WithDebounce(d time.Duration) Option {
	return func(c *apis.Config) {
		c.Debounce = d
	}
}

// WithRequireIdentityKey sets the RequireIdentityKey option.
func WithRequireIdentityKey(require bool) Option {
	return func(c *apis.Config) {
		c.RequireIdentityKey = require
	}
}

// WithIdentityStrategy sets the IdentityStrategy option.
func WithIdentityStrategy(m mode.Mode) Option {
	return func(c *apis.Config) {
		c.IdentityStrategy = m
	}
}

// WithIdentityCacheSize sets the IdentityCacheSize option.
// A non-positive value resets to the default.
func WithIdentityCacheSize(n int) Option {
	return func(c *apis.Config) {
		c.IdentityCacheSize = n
	}
}

// WithWorkers sets the Workers option.
// A negative value resets to the default.
func WithWorkers(n int) Option {
	return func(c *apis.Config) {
		c.Workers = n
	}
}
