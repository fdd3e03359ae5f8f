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
	"codeberg.org/TauCeti/tyinfer/merge"
	"codeberg.org/TauCeti/tyinfer/varstore"
)

// latticeOps captures the bnd/with_bnd/ty_bot capability that lets dispatch,
// vars and varGround serve both Lub and Glb from one generic implementation:
// the only thing that differs between a join and a meet is which side of a
// variable's Bounds is relevant (upper for Lub, lower for Glb) and what a
// bottom value resolves to.
type latticeOps[T any] struct {
	// bnd picks the relevant bound out of a variable's current Bounds: the
	// upper bound for Lub, the lower bound for Glb.
	bnd func(b merge.Bounds[T]) merge.Bound[T]
	// withBnd returns b with its relevant bound replaced by t.
	withBnd func(b merge.Bounds[T], t T) merge.Bounds[T]
	// wrapVar builds a T that denotes the variable id (types.NewVar or
	// types.NewRegionVar), used when two variables are merged and the
	// combined result is "the variable" rather than a ground value.
	wrapVar func(id varstore.ID) T
}

// dispatch combines a and b: equal values and (for types) bottom short-
// circuit first, then variable/variable, variable/ground and ground/ground
// dispatch, with ground/ground falling through to structural.
func (lo latticeOps[T]) dispatch(
	store *varstore.Store[T],
	a, b T,
	equals func(a, b T) bool,
	isVar func(t T) (varstore.ID, bool),
	isBot func(t T) bool,
	tyBot func(t T) T,
	structural func(a, b T) (T, error),
) (T, error) {
	if equals(a, b) {
		return a, nil
	}
	if isBot != nil {
		if isBot(a) {
			return tyBot(b), nil
		}
		if isBot(b) {
			return tyBot(a), nil
		}
	}
	va, aIsVar := isVar(a)
	vb, bIsVar := isVar(b)
	switch {
	case aIsVar && bIsVar:
		return lo.vars(store, va, vb, structural)
	case aIsVar && !bIsVar:
		return lo.varGround(store, va, b, structural)
	case !aIsVar && bIsVar:
		return lo.varGround(store, vb, a, structural)
	default:
		return structural(a, b)
	}
}

// vars combines two variables: if both already carry the relevant bound,
// combining those two ground values structurally wins without touching the
// store; otherwise the two variables are related with RelateVars (which
// merges their roots unless a's upper bound is already a subtype of b's
// lower bound) and variable a is returned as the result.
func (lo latticeOps[T]) vars(store *varstore.Store[T], a, b varstore.ID, structural func(T, T) (T, error)) (T, error) {
	var zero T
	_, boundsA := store.Get(a)
	_, boundsB := store.Get(b)
	ba, bb := lo.bnd(boundsA), lo.bnd(boundsB)
	if ba != nil && bb != nil {
		if v, err := structural(*ba, *bb); err == nil {
			return v, nil
		}
	}
	if err := store.RelateVars(a, b); err != nil {
		return zero, err
	}
	return lo.wrapVar(a), nil
}

// varGround combines a variable with a ground value: if v already carries
// the relevant bound, combine it with t structurally; otherwise install t
// as that bound (SetVarToMergedBounds re-verifies lb <: ub as part of
// installing it) and return t.
func (lo latticeOps[T]) varGround(store *varstore.Store[T], v varstore.ID, t T, structural func(T, T) (T, error)) (T, error) {
	root, bounds := store.Get(v)
	if existing := lo.bnd(bounds); existing != nil {
		return structural(*existing, t)
	}
	if err := store.SetVarToMergedBounds(root, bounds, lo.withBnd(merge.Bounds[T]{}, t)); err != nil {
		var zero T
		return zero, err
	}
	return t, nil
}
