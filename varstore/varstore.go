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

// Package varstore is a union-find-like store mapping inference-variable ids
// to their current bounds, with path compression and transactional rollback.
// It is generic over the ground value type T (types.Type or types.Region)
// and knows nothing about either; the structural walk that decides WHEN to
// call RelateVars/RelateVarGround/RelateGroundVar lives in the combine
// package, the same separation a generic union-find implementation keeps
// from the callers that know what the unified terms actually mean.
package varstore

import (
	"fmt"

	"codeberg.org/TauCeti/tyinfer/journal"
	"codeberg.org/TauCeti/tyinfer/merge"
)

// ID is a dense, non-negative variable identifier. types.TyVid and
// types.RegVid each convert to and from ID at the combine/infer layer, which
// keeps this package free of any dependency on the types package.
type ID int

// varValue is the tagged variable value: a variable is either a redirect
// (union-find child) or a root carrying Bounds.
type varValue[T any] struct {
	redirect  ID
	isRedirect bool
	bounds    merge.Bounds[T]
}

// Store is one per-kind variable store (one for types, one for regions).
type Store[T any] struct {
	lat     merge.Lattice[T]
	bug     func(string)
	values  map[ID]varValue[T]
	sizes   map[ID]int // union-find rank hint, tracked but not yet used to bias merges
	log     journal.Journal[ID, varValue[T]]
	next    ID
}

// New constructs an empty Store backed by lat. bug is called for
// programmer-error conditions (e.g. Commit with a non-empty log); a nil bug
// panics on such conditions.
func New[T any](lat merge.Lattice[T], bug func(string)) *Store[T] {
	if bug == nil {
		bug = func(msg string) { panic("varstore: " + msg) }
	}
	return &Store[T]{
		lat:    lat,
		bug:    bug,
		values: make(map[ID]varValue[T]),
		sizes:  make(map[ID]int),
	}
}

// Fresh allocates a new variable id. It does not eagerly insert an entry
// into the store; a missing entry is implicitly an unbounded root (no lower
// or upper bound).
func (s *Store[T]) Fresh() ID {
	id := s.next
	s.next++
	s.sizes[id] = 1
	return id
}

func (s *Store[T]) get(v ID) varValue[T] {
	if vv, ok := s.values[v]; ok {
		return vv
	}
	return varValue[T]{}
}

func (s *Store[T]) restore(id ID, prior varValue[T]) {
	s.values[id] = prior
}

func (s *Store[T]) set(id ID, vv varValue[T]) {
	s.log.Push(id, s.get(id))
	s.values[id] = vv
}

// Get follows the redirect chain from v to its root, compressing the path as
// it goes (each intermediate redirect is journalled before being updated, so
// rollback sees it too), and returns the root id together with its current
// bounds.
func (s *Store[T]) Get(v ID) (ID, merge.Bounds[T]) {
	chain := []ID{v}
	cur := v
	for {
		vv := s.get(cur)
		if !vv.isRedirect {
			root := cur
			// Path-compress every intermediate node onto root.
			for _, node := range chain[:len(chain)-1] {
				s.set(node, varValue[T]{isRedirect: true, redirect: root})
			}
			return root, vv.bounds
		}
		cur = vv.redirect
		chain = append(chain, cur)
	}
}

// Size reports the union-find subtree-size hint for v's root. It is tracked
// but not currently used to bias which root survives a merge — either
// choice is sound, so this just keeps a rank-biased merge a one-line change
// at the RelateVars call site.
func (s *Store[T]) Size(v ID) int {
	root, _ := s.Get(v)
	return s.sizes[root]
}

// Try delegates to the underlying journal; see journal.Journal.Try.
func (s *Store[T]) Try(f func() error) error {
	return s.log.Try(f, s.restore)
}

// Commit delegates to the underlying journal; see journal.Journal.Commit.
// It must only be called at the outermost level.
func (s *Store[T]) Commit(f func() error) error {
	return s.log.Commit(f, s.restore, s.bug)
}

// SetVarToMergedBounds merges a and b via merge.MergeBnds and, on success,
// commits the result as v's new bounds; a failure is left for the enclosing
// Try to roll back.
func (s *Store[T]) SetVarToMergedBounds(v ID, a, b merge.Bounds[T]) error {
	merged, err := merge.MergeBnds(s.lat, a, b)
	if err != nil {
		return err
	}
	s.set(v, varValue[T]{bounds: merged})
	return nil
}

// RelateVars relates two variables to each other: if they are already the
// same root, it is a no-op. Otherwise it first tries the cheap
// decoupled win A.UB <: B.LB (both variables keep independent identities);
// failing that, it merges the two roots, redirecting b's root into a's root
// (right-merges-into-left, the stated default).
func (s *Store[T]) RelateVars(a, b ID) error {
	ra, boundsA := s.Get(a)
	rb, boundsB := s.Get(b)
	if ra == rb {
		return nil
	}
	if boundsA.UB != nil && boundsB.LB != nil {
		if s.lat.SubCheck(*boundsA.UB, *boundsB.LB) == nil {
			return nil
		}
	}
	if err := s.SetVarToMergedBounds(ra, boundsA, boundsB); err != nil {
		return err
	}
	s.set(rb, varValue[T]{isRedirect: true, redirect: ra})
	s.sizes[ra] = s.sizes[ra] + s.sizes[rb]
	return nil
}

// RelateVarGround relates a variable to a ground value as an upper bound:
// v <: t.
func (s *Store[T]) RelateVarGround(v ID, t T) error {
	r, bounds := s.Get(v)
	return s.SetVarToMergedBounds(r, bounds, merge.Bounds[T]{UB: &t})
}

// RelateGroundVar relates a ground value to a variable as a lower bound:
// t <: v.
func (s *Store[T]) RelateGroundVar(t T, v ID) error {
	r, bounds := s.Get(v)
	return s.SetVarToMergedBounds(r, bounds, merge.Bounds[T]{LB: &t})
}

// CheckConsistent asserts the no-variable-in-bound and lb<:ub invariants for
// every root this store currently knows about. It is meant for tests, not
// the hot path.
func (s *Store[T]) CheckConsistent(isRootHealthy func(lb, ub merge.Bound[T]) error) error {
	for id, vv := range s.values {
		if vv.isRedirect {
			continue
		}
		if err := isRootHealthy(vv.bounds.LB, vv.bounds.UB); err != nil {
			return fmt.Errorf("variable %v: %w", id, err)
		}
	}
	return nil
}
