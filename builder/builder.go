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

package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/identity/mode"
	"dirpx.dev/listfx/keyspace"
	"dirpx.dev/listfx/logging"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

var _ apis.Builder = (*builder)(nil)

// BuildKeySpace returns prev when one exists so route ids stay stable across
// reconfiguration; otherwise it returns a fresh KeySpace.
func (b *builder) BuildKeySpace(_ apis.Config, prev apis.KeySpace) apis.KeySpace {
	if prev != nil {
		return prev
	}
	return keyspace.New()
}

// BuildIdentities builds an allocator for cfg.IdentityStrategy. Allocators
// are not migrated: prev is reused only when it already uses the requested
// mode and capacity, and an unknown mode falls back to the default one.
func (b *builder) BuildIdentities(cfg apis.Config, prev apis.IdentityAllocator) apis.IdentityAllocator {
	size := cfg.IdentityCacheSize
	if size <= 0 {
		size = identity.DefaultSize
	}
	if p, ok := prev.(*identity.Allocator); ok && p.Mode() == cfg.IdentityStrategy {
		if p.Mode() == mode.Hash || p.Size() == size {
			return p
		}
	}
	a, err := identity.New(cfg.IdentityStrategy, cfg.IdentityCacheSize)
	if err != nil {
		logging.For("builder").Warn("falling back to default identity mode",
			zap.Stringer("mode", cfg.IdentityStrategy), zap.Error(err))
		a, _ = identity.New(0, cfg.IdentityCacheSize)
	}
	return a
}
