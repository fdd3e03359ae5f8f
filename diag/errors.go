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

// Package diag holds the two error taxonomies posted by the core and the
// diagnostics sink used for programmer-error conditions that are not
// recoverable.
package diag

import (
	"fmt"

	"codeberg.org/TauCeti/tyinfer/types"
)

// TypeErrorKind discriminates the combiner-posted error taxonomy.
type TypeErrorKind int

const (
	ErrSorts TypeErrorKind = iota
	ErrMutability
	ErrArgCount
	ErrTupleSize
	ErrRecordSize
	ErrRecordFields
	ErrInField
	ErrTyParamSize
	ErrProtoMismatch
	ErrRetStyleMismatch
	ErrRegionsDiffer
	ErrVStoresDiffer
	ErrConstrMismatch
	ErrConstrLen
	ErrSelfSubsts
)

// TypeError is posted by the combiners. Propagation is first-failure: the
// current journal.Try short-circuits and the outer Commit rolls back every
// mutation since its start.
type TypeError struct {
	Kind TypeErrorKind

	Expected, Actual types.Type
	RExp, RAct       types.Region
	NExp, NAct       int
	FieldExp, FieldAct string
	Field            string
	Inner            error
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case ErrSorts:
		return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
	case ErrMutability:
		return "mutability mismatch"
	case ErrArgCount:
		return fmt.Sprintf("argument count mismatch: expected %d, got %d", e.NExp, e.NAct)
	case ErrTupleSize:
		return fmt.Sprintf("tuple size mismatch: expected %d, got %d", e.NExp, e.NAct)
	case ErrRecordSize:
		return fmt.Sprintf("record size mismatch: expected %d fields, got %d", e.NExp, e.NAct)
	case ErrRecordFields:
		return fmt.Sprintf("record field mismatch: expected %q, got %q", e.FieldExp, e.FieldAct)
	case ErrInField:
		return fmt.Sprintf("in field %q: %v", e.Field, e.Inner)
	case ErrTyParamSize:
		return fmt.Sprintf("type parameter count mismatch: expected %d, got %d", e.NExp, e.NAct)
	case ErrProtoMismatch:
		return "function calling-convention mismatch"
	case ErrRetStyleMismatch:
		return "function return-style mismatch"
	case ErrRegionsDiffer:
		return fmt.Sprintf("regions differ: expected %s, got %s", e.RExp, e.RAct)
	case ErrVStoresDiffer:
		return "vector/string storage kinds differ"
	case ErrConstrMismatch:
		return "type constraint mismatch"
	case ErrConstrLen:
		return "type constraint list length mismatch"
	case ErrSelfSubsts:
		return "substitution lists disagree about presence of a self-region"
	default:
		return "type error"
	}
}

func (e *TypeError) Unwrap() error { return e.Inner }

// FixupErrorKind discriminates the resolver-posted error taxonomy.
type FixupErrorKind int

const (
	ErrUnresolvedTy FixupErrorKind = iota
	ErrUnresolvedRegion
	ErrCyclicTy
	ErrCyclicRegion
)

// FixupError is posted by the resolver. It is a terminal per-resolve
// result; callers typically surface it as a diagnostic.
type FixupError struct {
	Kind   FixupErrorKind
	TyVar  types.TyVid
	RegVar types.RegVid
}

func (e *FixupError) Error() string {
	switch e.Kind {
	case ErrUnresolvedTy:
		return fmt.Sprintf("unresolved type variable ?%d", e.TyVar)
	case ErrUnresolvedRegion:
		return fmt.Sprintf("unresolved region variable '?%d", e.RegVar)
	case ErrCyclicTy:
		return fmt.Sprintf("cyclic type at variable ?%d", e.TyVar)
	case ErrCyclicRegion:
		return fmt.Sprintf("cyclic region at variable '?%d", e.RegVar)
	default:
		return "fixup error"
	}
}
