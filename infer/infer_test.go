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

package infer

import (
	"testing"

	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/types"
)

func newTestCtx(t *testing.T) *Ctx {
	t.Helper()
	tc := types.NewInternContext()
	oracle := region.NewScopeTree()
	return NewCtx(tc, oracle, func(msg string) { t.Fatalf("bug: %s", msg) })
}

func TestFreshVarUpperBound(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()
	if err := ctx.MakeSubtype(v, types.Bool); err != nil {
		t.Fatalf("MakeSubtype(v, bool): %v", err)
	}
	resolved, err := ctx.ResolveDeep(v)
	if err != nil {
		t.Fatalf("ResolveDeep: %v", err)
	}
	if !resolved.Equals(types.Bool) {
		t.Fatalf("resolved = %s; want bool", resolved)
	}
}

func TestFreshVarLowerBound(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()
	if err := ctx.MakeSubtype(types.Bool, v); err != nil {
		t.Fatalf("MakeSubtype(bool, v): %v", err)
	}
	resolved, err := ctx.ResolveDeep(v)
	if err != nil {
		t.Fatalf("ResolveDeep: %v", err)
	}
	if !resolved.Equals(types.Bool) {
		t.Fatalf("resolved = %s; want bool", resolved)
	}
}

func TestGroundMismatchFails(t *testing.T) {
	ctx := newTestCtx(t)
	if err := ctx.MakeSubtype(types.Bool, types.Str); err == nil {
		t.Fatal("MakeSubtype(bool, str) succeeded; want a sorts mismatch")
	}
}

func TestMakeEqualRoundTripsWithSubtypeBothWays(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()
	w := ctx.FreshTyVar()
	if err := ctx.MakeEqual(v, w); err != nil {
		t.Fatalf("MakeEqual(v, w): %v", err)
	}
	aSubB, bSubA := ctx.CompareTypes(v, w)
	if !aSubB || !bSubA {
		t.Fatalf("CompareTypes(v, w) = %v, %v; want true, true after MakeEqual", aSubB, bSubA)
	}
}

func TestUnboundVarsUnifyOnRelate(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()
	w := ctx.FreshTyVar()
	if err := ctx.MakeSubtype(v, w); err != nil {
		t.Fatalf("MakeSubtype(v, w): %v", err)
	}
	if err := ctx.MakeSubtype(types.Int(32), v); err != nil {
		t.Fatalf("MakeSubtype(i32, v): %v", err)
	}
	resolved, err := ctx.ResolveDeep(w)
	if err != nil {
		t.Fatalf("ResolveDeep(w): %v", err)
	}
	if !resolved.Equals(types.Int(32)) {
		t.Fatalf("resolved w = %s; want i32 (propagated through v <: w)", resolved)
	}
}

func TestMakeSubregionStaticAbsorbsEverything(t *testing.T) {
	ctx := newTestCtx(t)
	scope := ctx.Env
	_ = scope
	if err := ctx.MakeSubregion(types.NewScope(1), types.Static); err != nil {
		t.Fatalf("MakeSubregion(scope, 'static): %v", err)
	}
	if err := ctx.MakeSubregion(types.Static, types.NewScope(1)); err == nil {
		t.Fatal("MakeSubregion('static, scope) succeeded; 'static does not outlive a narrower scope")
	}
}

func TestMakeSubregionNestedScopes(t *testing.T) {
	tree := region.NewScopeTree()
	tree.AddScope(2, 1) // scope 2 nested inside scope 1
	c := NewCtx(types.NewInternContext(), tree, func(msg string) { t.Fatalf("bug: %s", msg) })
	if err := c.MakeSubregion(types.NewScope(2), types.NewScope(1)); err != nil {
		t.Fatalf("MakeSubregion(inner, outer): %v", err)
	}
	if err := c.MakeSubregion(types.NewScope(1), types.NewScope(2)); err == nil {
		t.Fatal("MakeSubregion(outer, inner) succeeded; an outer scope does not outlive its own nested scope")
	}
}

func TestMakeAssignableBoxToRptrCrossPollinates(t *testing.T) {
	ctx := newTestCtx(t)
	imm := types.Mt{Ty: types.Bool, Mutbl: types.Imm}
	boxed := types.NewBox(imm)
	target := types.NewRptr(types.NewScope(1), imm)

	if err := ctx.MakeAssignable(1, types.BorrowScope{Scope: 1}, boxed, target); err != nil {
		t.Fatalf("MakeAssignable(box<bool>, &'scope1.bool): %v", err)
	}

	tc := ctx.Env.TC
	if _, ok := tc.Borrowing(1); !ok {
		t.Fatal("expected an auto-borrow to be recorded for expr 1")
	}
}

func TestMakeAssignableDirectSubtypeNoCrossPollination(t *testing.T) {
	ctx := newTestCtx(t)
	if err := ctx.MakeAssignable(2, types.BorrowScope{}, types.Bool, types.Bool); err != nil {
		t.Fatalf("MakeAssignable(bool, bool): %v", err)
	}
	if _, ok := ctx.Env.TC.Borrowing(2); ok {
		t.Fatal("a direct-subtype assignment should not record a borrow")
	}
}

func TestMakeAssignableIncompatibleFails(t *testing.T) {
	ctx := newTestCtx(t)
	if err := ctx.MakeAssignable(3, types.BorrowScope{}, types.Bool, types.Str); err == nil {
		t.Fatal("MakeAssignable(bool, str) succeeded; want failure")
	}
}

func TestResolveDeepVarForceVarsUnresolved(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()
	vid, _ := v.IsVar()
	if _, err := ctx.ResolveDeepVar(vid); err == nil {
		t.Fatal("ResolveDeepVar on a wholly unbounded variable succeeded; want a FixupError")
	}
}

func TestProbeRollsBackRegardlessOfOutcome(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshTyVar()

	ok := ctx.Probe(func() error { return ctx.MakeSubtype(v, types.Bool) })
	if !ok {
		t.Fatal("Probe reported failure for a constraint that should hold")
	}
	resolved, err := ctx.ResolveDeep(v)
	if err != nil {
		t.Fatalf("ResolveDeep after Probe: %v", err)
	}
	if _, isVar := resolved.IsVar(); !isVar {
		t.Fatalf("resolved = %s; Probe should not have left a lasting bound on v", resolved)
	}
}

func TestCompareTypesDistinctGroundsNeitherDirection(t *testing.T) {
	ctx := newTestCtx(t)
	aSubB, bSubA := ctx.CompareTypes(types.Bool, types.Str)
	if aSubB || bSubA {
		t.Fatalf("CompareTypes(bool, str) = %v, %v; want false, false", aSubB, bSubA)
	}
}

func TestFreshWeakTyVarIsMarkedWeak(t *testing.T) {
	ctx := newTestCtx(t)
	v := ctx.FreshWeakTyVar()
	if !v.Weak {
		t.Fatal("FreshWeakTyVar did not set Weak")
	}
}

func TestTyVarCountCountsAllocations(t *testing.T) {
	ctx := newTestCtx(t)
	if ctx.TyVarCount() != 0 {
		t.Fatalf("TyVarCount() = %d before any allocation; want 0", ctx.TyVarCount())
	}
	ctx.FreshTyVar()
	ctx.FreshTyVar()
	if ctx.TyVarCount() != 2 {
		t.Fatalf("TyVarCount() = %d after two allocations; want 2", ctx.TyVarCount())
	}
}

func TestNextTyVarsBatchAllocatesDistinctVars(t *testing.T) {
	ctx := newTestCtx(t)
	vids := ctx.NextTyVars(3)
	if len(vids) != 3 {
		t.Fatalf("NextTyVars(3) returned %d variables; want 3", len(vids))
	}
	seen := map[types.TyVid]bool{}
	for _, v := range vids {
		if seen[v] {
			t.Fatalf("NextTyVars(3) returned duplicate variable %v", v)
		}
		seen[v] = true
	}
	if ctx.TyVarCount() != 3 {
		t.Fatalf("TyVarCount() after NextTyVars(3) = %d; want 3", ctx.TyVarCount())
	}
}
