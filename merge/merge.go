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

// Package merge implements bound merging: intersecting two (lower, upper)
// bound pairs for the same variable and enforcing the cross-relation check
// that makes the merge coherent. It is deliberately generic and has no
// knowledge of types or regions, so it can be shared between the
// type-variable store and the region-variable store despite the two
// operating over different ground value types.
package merge

import "fmt"

// Lattice supplies the three operations MergeBnds needs on the underlying
// ground value type: a subtype check, a least-upper-bound (join), and a
// greatest-lower-bound (meet).
type Lattice[T any] interface {
	// SubCheck returns nil if lb is a subtype of ub, else a descriptive
	// error.
	SubCheck(lb, ub T) error
	// Lub returns the least upper bound of a and b.
	Lub(a, b T) (T, error)
	// Glb returns the greatest lower bound of a and b.
	Glb(a, b T) (T, error)
}

// Bound is an optional ground value: nil denotes top (for an upper bound) or
// bottom (for a lower bound).
type Bound[T any] *T

// Bounds is the (lower, upper) pair tracked for a variable. The invariant
// lb <: ub, when both are present, is enforced by MergeBnds and never by
// direct field assignment.
type Bounds[T any] struct {
	LB *T
	UB *T
}

// MergeBnd merges two optional bounds with op: both-nil merges to nil
// (top/bottom, whichever the bound represents); one-nil returns the other;
// both-present combines them with op.
func MergeBnd[T any](a, b Bound[T], op func(T, T) (T, error)) (Bound[T], error) {
	switch {
	case a == nil && b == nil:
		return nil, nil
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	default:
		v, err := op(*a, *b)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// MergeBnds merges two Bounds pairs for the same variable: it requires
// A.LB <: B.UB and B.LB <: A.UB (the cross-relation check that makes the
// merge coherent), computes UB' = glb(A.UB, B.UB) and LB' = lub(A.LB, B.LB),
// and finally verifies LB' <: UB'.
func MergeBnds[T any](lat Lattice[T], a, b Bounds[T]) (Bounds[T], error) {
	if a.LB != nil && b.UB != nil {
		if err := lat.SubCheck(*a.LB, *b.UB); err != nil {
			return Bounds[T]{}, fmt.Errorf("merge: cross-relation failed (a.lb <: b.ub): %w", err)
		}
	}
	if b.LB != nil && a.UB != nil {
		if err := lat.SubCheck(*b.LB, *a.UB); err != nil {
			return Bounds[T]{}, fmt.Errorf("merge: cross-relation failed (b.lb <: a.ub): %w", err)
		}
	}
	ub, err := MergeBnd(a.UB, b.UB, lat.Glb)
	if err != nil {
		return Bounds[T]{}, fmt.Errorf("merge: glb(a.ub, b.ub): %w", err)
	}
	lb, err := MergeBnd(a.LB, b.LB, lat.Lub)
	if err != nil {
		return Bounds[T]{}, fmt.Errorf("merge: lub(a.lb, b.lb): %w", err)
	}
	if lb != nil && ub != nil {
		if err := lat.SubCheck(*lb, *ub); err != nil {
			return Bounds[T]{}, fmt.Errorf("merge: merged lb not <: merged ub: %w", err)
		}
	}
	return Bounds[T]{LB: lb, UB: ub}, nil
}
