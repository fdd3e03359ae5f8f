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

package combine

import (
	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/types"
)

// groundLubRegions implements the Lub rules for two already-ground
// (non-variable) regions. The oracle is consulted only for scope/scope and
// scope/free pairs; every other
// combination either matches structurally or joins to 'static, which always
// outlives everything and is therefore always a safe (if imprecise) join
// result.
func groundLubRegions(env *Env, a, b types.Region) (types.Region, error) {
	if a.Kind == types.RStatic || b.Kind == types.RStatic {
		return types.Static, nil
	}
	if a.Kind == types.RFree && b.Kind == types.RScope {
		if env.Oracle.IsAncestor(a.Scope, b.Scope) {
			return a, nil
		}
		return types.Static, nil
	}
	if b.Kind == types.RFree && a.Kind == types.RScope {
		if env.Oracle.IsAncestor(b.Scope, a.Scope) {
			return b, nil
		}
		return types.Static, nil
	}
	if a.Kind == types.RScope && b.Kind == types.RScope {
		if nca, ok := env.Oracle.NearestCommonAncestor(a.Scope, b.Scope); ok {
			return types.NewScope(nca), nil
		}
		return types.Static, nil
	}
	if a.Equals(b) {
		return a, nil
	}
	return types.Static, nil
}

// groundGlbRegions implements the Glb rules for two already-ground regions.
// Unlike the join, the meet of two disjoint regions has no
// safe imprecise fallback (there is no region guaranteed to be outlived by
// both), so disjoint ground regions are a RegionsDiffer TypeError.
func groundGlbRegions(env *Env, a, b types.Region) (types.Region, error) {
	if a.Kind == types.RStatic {
		return b, nil
	}
	if b.Kind == types.RStatic {
		return a, nil
	}
	if a.Kind == types.RScope && b.Kind == types.RScope {
		if env.Oracle.IsAncestor(a.Scope, b.Scope) {
			return b, nil
		}
		if env.Oracle.IsAncestor(b.Scope, a.Scope) {
			return a, nil
		}
		return types.Region{}, &diag.TypeError{Kind: diag.ErrRegionsDiffer, RExp: b, RAct: a}
	}
	if a.Kind == types.RFree && b.Kind == types.RScope {
		if env.Oracle.IsAncestor(a.Scope, b.Scope) {
			return b, nil
		}
		return types.Region{}, &diag.TypeError{Kind: diag.ErrRegionsDiffer, RExp: b, RAct: a}
	}
	if b.Kind == types.RFree && a.Kind == types.RScope {
		if env.Oracle.IsAncestor(b.Scope, a.Scope) {
			return a, nil
		}
		return types.Region{}, &diag.TypeError{Kind: diag.ErrRegionsDiffer, RExp: b, RAct: a}
	}
	if a.Equals(b) {
		return a, nil
	}
	return types.Region{}, &diag.TypeError{Kind: diag.ErrRegionsDiffer, RExp: b, RAct: a}
}
