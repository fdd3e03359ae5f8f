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

package types

import (
	"strconv"
	"sync"

	"bitbucket.org/creachadair/stringset"
)

// BorrowScope identifies the enclosing scope used to borrow an owned value
// for an assignability conversion (see assign.AssignTys).
type BorrowScope struct {
	Scope ScopeID
}

// TypeContext is the type-interning context: the external collaborator that
// constructs and inspects types. The inference core never constructs a Type
// directly except for fresh variables and the synthetic cross-pollination
// type built during assignability; every other Type it touches was built by
// a TypeContext.
//
// A TypeContext is read-mostly and may be shared by reference across
// sessions. Borrowings is the one piece of mutable state it owns; callers
// must serialize access to it within a single session.
type TypeContext interface {
	// Struct returns the structural accessor for t. For this concrete
	// representation Type already is its own structural view, so Struct is
	// the identity; the indirection exists so an alternate TypeContext
	// backed by real interning (hash-consed ids rather than Go values) can
	// still satisfy the interface.
	Struct(t Type) Type

	// MachSty returns a cheap structural identity used to recognize a == b
	// without a deep walk.
	MachSty(t Type) uint64

	// RecordBorrow records that expr was auto-borrowed within scope.
	RecordBorrow(expr ExprID, scope BorrowScope)

	// Borrowing looks up a previously recorded borrow, if any.
	Borrowing(expr ExprID) (BorrowScope, bool)
}

// InternContext is the default, concrete TypeContext. It does not hash-cons
// (Type is a plain Go value, so structural sharing isn't required for
// correctness), but it does own the single mutable Borrowings table, which
// must support single-writer access during a session.
type InternContext struct {
	mu         sync.Mutex
	borrowings map[ExprID]BorrowScope
	borrowed   stringset.Set
}

// NewInternContext constructs an empty InternContext.
func NewInternContext() *InternContext {
	return &InternContext{borrowings: make(map[ExprID]BorrowScope), borrowed: stringset.New()}
}

// Struct implements TypeContext.
func (c *InternContext) Struct(t Type) Type { return t }

// MachSty implements TypeContext.
func (c *InternContext) MachSty(t Type) uint64 { return t.MachSty() }

// RecordBorrow implements TypeContext.
func (c *InternContext) RecordBorrow(expr ExprID, scope BorrowScope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.borrowings[expr] = scope
	c.borrowed.Add(strconv.Itoa(int(expr)))
}

// Borrowing implements TypeContext.
func (c *InternContext) Borrowing(expr ExprID) (BorrowScope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bs, ok := c.borrowings[expr]
	return bs, ok
}

// Borrowings returns a snapshot copy of the recorded borrowings, for tests
// and diagnostics.
func (c *InternContext) Borrowings() map[ExprID]BorrowScope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[ExprID]BorrowScope, len(c.borrowings))
	for k, v := range c.borrowings {
		out[k] = v
	}
	return out
}

// BorrowedExprIDs returns the set of expression ids that have recorded a
// borrow so far, as a plain string-keyed set for cheap membership checks by
// diagnostics that only care whether an expression was borrowed, not where.
func (c *InternContext) BorrowedExprIDs() stringset.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.borrowed.Clone()
}
