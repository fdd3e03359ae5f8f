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

// Package assign implements assignability: a relation strictly weaker than
// subtyping that additionally allows an owning pointer or vector/string
// expression to stand in for a borrowed one, by recording an implicit
// auto-borrow against the expression.
package assign

import (
	"codeberg.org/TauCeti/tyinfer/combine"
	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/types"
)

// Assignment names the expression and enclosing scope an auto-borrow, if
// one turns out to be necessary, would be recorded against.
type Assignment struct {
	Expr  types.ExprID
	Scope types.BorrowScope
}

// AssignTys attempts to assign a value of type exprTy, produced by
// assignment.Expr, to a binding or parameter of type target. It first tries
// plain subtyping; failing that, and only when target is a borrowed
// reference or slice, it tries the owning-to-borrowed cross-pollination
// pattern that matches exprTy's shape, recording the auto-borrow in env.TC
// if it succeeds. Patterns are matched against exprTy and target as given:
// a type variable on either side is not replaced by its current bounds, so
// it never matches a pattern.
//
// Every attempt runs inside env.Tys.Try (and, transitively, env.Regions.Try
// via the same journal discipline), so a failed pattern leaves no partial
// bound behind for the next pattern to trip over.
func AssignTys(env *combine.Env, assignment Assignment, exprTy, target types.Type) (types.Type, error) {
	if result, err := trySubtype(env, exprTy, target); err == nil {
		return result, nil
	}

	if nrB, rB, pattern, ok := crossPollinate(exprTy, target); ok {
		if err := tryCrossPollinate(env, exprTy, nrB, assignment.Scope, rB); err == nil {
			env.TC.RecordBorrow(assignment.Expr, assignment.Scope)
			_ = pattern // the matched pattern is not reported to the caller
			return target, nil
		}
	}

	if exprTy.Kind == types.TVar && exprTy.Weak {
		// A Weak variable gets one more plain subtype check against target.
		// It runs against the same store state as the first check above,
		// which was rolled back, so it succeeds only when that check did;
		// a Weak variable is otherwise treated like any other variable.
		if result, err := trySubtype(env, exprTy, target); err == nil {
			return result, nil
		}
	}

	return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: target, Actual: exprTy}
}

func trySubtype(env *combine.Env, exprTy, target types.Type) (types.Type, error) {
	var result types.Type
	err := env.Tys.Try(func() error {
		return env.Regions.Try(func() error {
			r, err := (&combine.Sub{Env: env}).Tys(exprTy, target)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return types.Type{}, err
	}
	return result, nil
}

// tryCrossPollinate checks exprTy against the synthesized unwrapped type
// nrB, then separately checks, through ContraRegions(scope, rB), that rB,
// the region the target reference actually needs, is a subregion of
// scope, the borrow's enclosing scope.
// Both checks run inside the same journal transaction, so either one
// failing leaves no partial bound behind.
func tryCrossPollinate(env *combine.Env, exprTy, nrB types.Type, scope types.BorrowScope, rB types.Region) error {
	return env.Tys.Try(func() error {
		return env.Regions.Try(func() error {
			if _, err := (&combine.Sub{Env: env}).Tys(exprTy, nrB); err != nil {
				return err
			}
			_, err := (&combine.Sub{Env: env}).ContraRegions(types.NewScope(scope.Scope), rB)
			return err
		})
	})
}

// pattern names which family of cross-pollination shapes crossPollinate
// matched: seven shapes in all, grouped into five patterns.
type pattern int

const (
	patternBoxToRptr pattern = iota
	patternUniqToRptr
	patternPtrToRptr
	patternVecToSlice
	patternStrToSlice
	patternNone
)

// crossPollinate reports whether exprTy is an owning shape that could stand
// in for target's borrowed shape. If so it returns two things to check
// separately: nrB, target's pointee wrapped back in exprTy's own owning
// constructor (so a plain structural subtype check on nrB never touches a
// region at all), and rB, the region the reference actually needs, which
// the caller must confirm is a subregion of the borrow's enclosing scope.
// Keeping these separate avoids folding target's region into the
// synthesized type, which would make any later region check against that
// same type trivially true.
func crossPollinate(exprTy, target types.Type) (types.Type, types.Region, pattern, bool) {
	switch target.Kind {
	case types.TRptr:
		switch exprTy.Kind {
		case types.TBox:
			return types.NewBox(*target.Mt), target.Region, patternBoxToRptr, true
		case types.TUniq:
			return types.NewUniq(*target.Mt), target.Region, patternUniqToRptr, true
		case types.TPtr:
			return types.NewPtr(*target.Mt), target.Region, patternPtrToRptr, true
		}
	case types.TEVec:
		if target.VStore.Kind != types.VStoreSlice {
			break
		}
		if exprTy.Kind == types.TEVec && types.Borrowable(exprTy.VStore) {
			return types.NewEVec(*target.Elem, exprTy.VStore), target.VStore.Region, patternVecToSlice, true
		}
		if exprTy.Kind == types.TVec {
			return types.NewVec(*target.Elem), target.VStore.Region, patternVecToSlice, true
		}
	case types.TEStr:
		if target.VStore.Kind != types.VStoreSlice {
			break
		}
		if exprTy.Kind == types.TStr {
			return types.Str, target.VStore.Region, patternStrToSlice, true
		}
		if exprTy.Kind == types.TEStr && types.Borrowable(exprTy.VStore) {
			return types.NewEStr(exprTy.VStore), target.VStore.Region, patternStrToSlice, true
		}
	}
	return types.Type{}, types.Region{}, patternNone, false
}
