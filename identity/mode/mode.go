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

package mode

import (
	"fmt"
	"strings"
)

// Mode selects how an identity allocator turns (RouteID, business key) pairs
// into int64 item ids.
//
// # Values
//
//   - LRU: ids are handed out from a counter and remembered in a bounded
//     least-recently-used table. Ids are small and dense; a key evicted from
//     the table receives a fresh id the next time it is seen.
//   - Hash: ids are derived by hashing the pair. Nothing is stored, ids are
//     stable across allocators and process restarts, and two distinct pairs
//     may in principle collide.
//
// # Contract
//
//   - Mode values are plain integers and are safe to share across goroutines.
//   - The text forms ("lru", "hash", case-insensitive) are a stable
//     configuration format.
type Mode int

const (
	// LRU allocates ids from a counter remembered in a bounded LRU table.
	LRU Mode = iota

	// Hash derives ids by hashing the route id and business key.
	Hash
)

// String returns "LRU" or "Hash", and "Unknown(<n>)" for anything else.
func (m Mode) String() string {
	switch m {
	case LRU:
		return "LRU"
	case Hash:
		return "Hash"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Parse parses a textual Mode. Matching is case-insensitive and surrounding
// whitespace is ignored. On failure LRU and a non-nil error are returned.
func Parse(s string) (Mode, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return LRU, fmt.Errorf("identity: empty mode")
	}

	switch strings.ToUpper(trimmed) {
	case "LRU":
		return LRU, nil
	case "HASH":
		return Hash, nil
	default:
		return LRU, fmt.Errorf("identity: unknown mode %q", s)
	}
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Mode {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an error
// rather than being persisted as "Unknown(n)".
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case LRU, Hash:
		return []byte(strings.ToLower(m.String())), nil
	default:
		return nil, fmt.Errorf("identity: cannot marshal unknown mode %d", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *m is left
// unchanged.
func (m *Mode) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = value
	return nil
}
