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

package mode_test

import (
	"testing"

	"gopkg.in/yaml.v3"

	"dirpx.dev/listfx/identity/mode"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode mode.Mode
		want string
	}{
		{mode.LRU, "LRU"},
		{mode.Hash, "Hash"},
		{mode.Mode(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParse verifies case-insensitive parsing with surrounding whitespace.
func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  mode.Mode
	}{
		{"LRU", mode.LRU},
		{"lru", mode.LRU},
		{"  lRu ", mode.LRU},
		{"hash", mode.Hash},
		{"HASH", mode.Hash},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := mode.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "lfu", "hash1", "!!"} {
		got, err := mode.Parse(input)
		if err == nil {
			t.Fatalf("Parse(%q) error = nil, want non-nil", input)
		}
		if got != mode.LRU {
			t.Fatalf("Parse(%q) = %v, want LRU on error", input, got)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustParse did not panic on invalid input")
		}
	}()
	_ = mode.MustParse("ttl")
}

func TestMarshalText(t *testing.T) {
	b, err := mode.Hash.MarshalText()
	if err != nil || string(b) != "hash" {
		t.Fatalf("MarshalText() = %q, %v; want \"hash\", nil", b, err)
	}
	if _, err := mode.Mode(7).MarshalText(); err == nil {
		t.Fatalf("MarshalText() on unknown mode: want error")
	}
}

// TestUnmarshalTextKeepsValueOnError verifies the target is untouched when
// decoding fails.
func TestUnmarshalTextKeepsValueOnError(t *testing.T) {
	m := mode.Hash
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatalf("UnmarshalText(bogus): want error")
	}
	if m != mode.Hash {
		t.Fatalf("UnmarshalText changed target on error: %v", m)
	}
}

func TestYAMLDecoding(t *testing.T) {
	var doc struct {
		Mode mode.Mode `yaml:"mode"`
	}
	if err := yaml.Unmarshal([]byte("mode: hash\n"), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if doc.Mode != mode.Hash {
		t.Fatalf("decoded mode = %v, want Hash", doc.Mode)
	}
}
