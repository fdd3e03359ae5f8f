// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package region provides the region-hierarchy oracle the inference core
// consults when computing the lub/glb of two lexical-scope regions, and a
// concrete scope-tree implementation of it.
package region

import "codeberg.org/TauCeti/tyinfer/types"

// Oracle answers "nearest common ancestor of two scope ids" queries. The
// inference core treats it as a read-only external collaborator; it never
// mutates the scope hierarchy itself.
type Oracle interface {
	// NearestCommonAncestor returns the nearest scope that contains both a
	// and b (including a or b themselves), or false if no such scope is
	// known to the oracle.
	NearestCommonAncestor(a, b types.ScopeID) (types.ScopeID, bool)

	// IsAncestor reports whether ancestor is an ancestor of (or equal to)
	// scope.
	IsAncestor(ancestor, scope types.ScopeID) bool
}
