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

// RouteID is the small integer a host uses to pick a renderer, allocated once
// per distinct route key.
type RouteID int32

const (
	// FirstRouteID is the first id handed out; lower values are reserved.
	FirstRouteID RouteID = 10000

	// PlaceholderRouteID routes Placeholder items.
	PlaceholderRouteID RouteID = -2049
)

// NoID is the item id reported for items without an identity key.
const NoID int64 = -1

// Placeholder is the item value a host inserts for not-yet-loaded slots.
type Placeholder struct{}
