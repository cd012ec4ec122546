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

package apis

// KeySpace allocates RouteIDs for route keys. Allocation is append-only:
// a key keeps its id for the life of the KeySpace.
type KeySpace interface {
	IDFor(key any) (RouteID, error)
	Lookup(key any) (RouteID, bool)
	Entries() []KeyEntry
	Count() int
}

// KeyEntry is a single (key, id) association.
type KeyEntry struct {
	Key any
	ID  RouteID
}

// IdentityAllocator maps (RouteID, identity key) pairs to int64 item ids.
type IdentityAllocator interface {
	Identity(route RouteID, key any) int64
	Len() int
}
