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

package resolve

import (
	"testing"

	"bitbucket.org/creachadair/stringset"
	"github.com/google/go-cmp/cmp"

	"codeberg.org/TauCeti/tyinfer/combine"
	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/types"
)

// tyCmp compares two types.Type values via Equals rather than by field, since
// Type carries pointer fields (Mt, Elem, ...) that differ in address even
// when the types they reach are equal.
var tyCmp = cmp.Comparer(func(a, b types.Type) bool { return a.Equals(b) })

func newTestEnv(t *testing.T) *combine.Env {
	t.Helper()
	tc := types.NewInternContext()
	oracle := region.NewScopeTree()
	return combine.NewEnv(tc, oracle, func(msg string) { t.Fatalf("bug: %s", msg) })
}

func TestResolveGroundTypeIsIdentity(t *testing.T) {
	env := newTestEnv(t)
	r := &Resolver{Env: env, Deep: true}
	got, err := r.Ty(types.Bool)
	if err != nil {
		t.Fatalf("Ty(bool): %v", err)
	}
	if !got.Equals(types.Bool) {
		t.Fatalf("Ty(bool) = %s; want bool", got)
	}
}

func TestResolveUnboundVarPassesThrough(t *testing.T) {
	env := newTestEnv(t)
	v := env.Tys.Fresh()
	r := &Resolver{Env: env}
	got, err := r.Ty(types.NewVar(types.TyVid(v), false))
	if err != nil {
		t.Fatalf("Ty(unbound var): %v", err)
	}
	gotV, ok := got.IsVar()
	if !ok || gotV != types.TyVid(v) {
		t.Fatalf("Ty(unbound var) = %s; want the same variable unchanged", got)
	}
}

func TestResolveUnboundVarForceVarsFails(t *testing.T) {
	env := newTestEnv(t)
	v := env.Tys.Fresh()
	r := &Resolver{Env: env, ForceVars: true}
	if _, err := r.Ty(types.NewVar(types.TyVid(v), false)); err == nil {
		t.Fatal("Ty(unbound var) with ForceVars succeeded; want a FixupError")
	}
}

func TestResolveShallowStopsAtOneLevel(t *testing.T) {
	env := newTestEnv(t)
	inner := env.Tys.Fresh()
	if err := env.Tys.RelateVarGround(inner, types.Bool); err != nil {
		t.Fatalf("RelateVarGround: %v", err)
	}
	outer := env.Tys.Fresh()
	if err := env.Tys.RelateVarGround(outer, types.NewVar(types.TyVid(inner), false)); err != nil {
		t.Fatalf("RelateVarGround(outer, inner-var): %v", err)
	}

	r := &Resolver{Env: env}
	got, err := r.Ty(types.NewVar(types.TyVid(outer), false))
	if err != nil {
		t.Fatalf("Ty(outer): %v", err)
	}
	if _, ok := got.IsVar(); !ok {
		t.Fatalf("shallow resolve of outer = %s; want the inner variable, not recursed through", got)
	}
}

func TestResolveDeepRecursesThroughChainedVars(t *testing.T) {
	env := newTestEnv(t)
	inner := env.Tys.Fresh()
	if err := env.Tys.RelateVarGround(inner, types.Bool); err != nil {
		t.Fatalf("RelateVarGround: %v", err)
	}
	outer := env.Tys.Fresh()
	if err := env.Tys.RelateVarGround(outer, types.NewVar(types.TyVid(inner), false)); err != nil {
		t.Fatalf("RelateVarGround(outer, inner-var): %v", err)
	}

	r := &Resolver{Env: env, Deep: true}
	got, err := r.Ty(types.NewVar(types.TyVid(outer), false))
	if err != nil {
		t.Fatalf("Ty(outer): %v", err)
	}
	if !got.Equals(types.Bool) {
		t.Fatalf("deep resolve of outer = %s; want bool", got)
	}
}

func TestResolveStructuralWalk(t *testing.T) {
	env := newTestEnv(t)
	v := env.Tys.Fresh()
	if err := env.Tys.RelateVarGround(v, types.Bool); err != nil {
		t.Fatalf("RelateVarGround: %v", err)
	}
	tup := types.NewTup(types.NewVar(types.TyVid(v), false), types.Str)

	r := &Resolver{Env: env, Deep: true}
	got, err := r.Ty(tup)
	if err != nil {
		t.Fatalf("Ty(tuple): %v", err)
	}
	want := types.NewTup(types.Bool, types.Str)
	if diff := cmp.Diff(want, got, tyCmp); diff != "" {
		t.Fatalf("Ty(tuple) mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRegionUnbound(t *testing.T) {
	env := newTestEnv(t)
	rv := env.Regions.Fresh()
	r := &Resolver{Env: env}
	got, err := r.Region(types.NewRegionVar(types.RegVid(rv)))
	if err != nil {
		t.Fatalf("Region(unbound): %v", err)
	}
	gotV, ok := got.IsVar()
	if !ok || gotV != types.RegVid(rv) {
		t.Fatalf("Region(unbound) = %s; want the same variable unchanged", got)
	}
}

func TestResolveRegionBound(t *testing.T) {
	env := newTestEnv(t)
	rv := env.Regions.Fresh()
	if err := env.Regions.RelateVarGround(rv, types.NewScope(1)); err != nil {
		t.Fatalf("RelateVarGround: %v", err)
	}
	r := &Resolver{Env: env, Deep: true}
	got, err := r.Region(types.NewRegionVar(types.RegVid(rv)))
	if err != nil {
		t.Fatalf("Region(bound): %v", err)
	}
	if !got.Equals(types.NewScope(1)) {
		t.Fatalf("Region(bound) = %s; want 'scope1", got)
	}
}

func TestResolveTyVarPrefersNonBottomLowerBound(t *testing.T) {
	env := newTestEnv(t)
	v := env.Tys.Fresh()
	lb := types.NewBox(types.Mt{Ty: types.Bot, Mutbl: types.Const})
	ub := types.NewBox(types.Mt{Ty: types.Bool, Mutbl: types.Const})
	if err := env.Tys.RelateGroundVar(lb, v); err != nil {
		t.Fatalf("RelateGroundVar: %v", err)
	}
	if err := env.Tys.RelateVarGround(v, ub); err != nil {
		t.Fatalf("RelateVarGround: %v", err)
	}

	r := &Resolver{Env: env, Deep: true}
	got, err := r.Ty(types.NewVar(types.TyVid(v), false))
	if err != nil {
		t.Fatalf("Ty(v): %v", err)
	}
	if diff := cmp.Diff(lb, got, tyCmp); diff != "" {
		t.Fatalf("Ty(v) should prefer the non-bottom lower bound over the upper bound (-want +got):\n%s", diff)
	}
}

func TestResolveCyclicTypeIsReported(t *testing.T) {
	env := newTestEnv(t)
	v := env.Tys.Fresh()
	// Exercise the cycle guard directly by priming visitingTy before the
	// call, mirroring what a chain A->B->A would leave behind mid-walk; the
	// combiners never actually produce a bound that mentions its own
	// variable, so this is the only way to reach the guard in isolation.
	r := &Resolver{Env: env, Deep: true, visitingTy: stringset.New(tyKey(types.TyVid(v))), visitingReg: stringset.New()}
	if _, err := r.resolveTyVar(types.TyVid(v), false); err == nil {
		t.Fatal("resolveTyVar revisiting an in-progress variable succeeded; want ErrCyclicTy")
	}
}
