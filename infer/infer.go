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

// Package infer is the session façade: the one type a caller outside this
// module needs to hold onto. It wires together the two variable stores, the
// combiners, assignability and the resolver behind a small, named-operation
// surface.
package infer

import (
	"codeberg.org/TauCeti/tyinfer/assign"
	"codeberg.org/TauCeti/tyinfer/combine"
	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/resolve"
	"codeberg.org/TauCeti/tyinfer/types"
)

// Ctx is one inference session: a fresh pair of variable stores plus the
// collaborators (TypeContext, region.Oracle) needed to relate them. A Ctx is
// not safe for concurrent use; callers that shard inference across
// goroutines give each goroutine its own Ctx, so each is driven from one
// evaluation loop at a time.
type Ctx struct {
	Env *combine.Env

	nextTyVar  types.TyVid
	nextRegVar types.RegVid

	// probing counts the Probe calls in progress; while it is non-zero,
	// commit nests inside Probe's transaction instead of truncating the log.
	probing int
}

// NewCtx constructs an inference session over tc and oracle. bug is called
// for programmer-error conditions detected deep in the variable stores
// (e.g. Commit with a non-empty journal); see diag.Sink for the default
// wiring through glog.
func NewCtx(tc types.TypeContext, oracle region.Oracle, bug func(string)) *Ctx {
	return &Ctx{Env: combine.NewEnv(tc, oracle, bug)}
}

// FreshTyVar allocates a new, unbounded type variable.
func (c *Ctx) FreshTyVar() types.Type {
	id := c.Env.Tys.Fresh()
	v := types.TyVid(id)
	if v >= c.nextTyVar {
		c.nextTyVar = v + 1
	}
	return types.NewVar(v, false)
}

// FreshWeakTyVar allocates a new, unbounded, Weak type variable — one
// created for auto-deref/auto-ref probing rather than ordinary inference.
func (c *Ctx) FreshWeakTyVar() types.Type {
	t := c.FreshTyVar()
	t.Weak = true
	return t
}

// FreshRegionVar allocates a new, unbounded region variable.
func (c *Ctx) FreshRegionVar() types.Region {
	id := c.Env.Regions.Fresh()
	v := types.RegVid(id)
	if v >= c.nextRegVar {
		c.nextRegVar = v + 1
	}
	return types.NewRegionVar(v)
}

// NextTyVars batch-allocates n fresh, unbounded type variables at once.
func (c *Ctx) NextTyVars(n int) []types.TyVid {
	vids := make([]types.TyVid, n)
	for i := range vids {
		v, _ := c.FreshTyVar().IsVar()
		vids[i] = v
	}
	return vids
}

// TyVarCount reports how many type variables have been allocated so far,
// for callers that want to snapshot or report on variable counts.
func (c *Ctx) TyVarCount() int { return int(c.nextTyVar) }

// RegionVarCount is the region analogue of TyVarCount.
func (c *Ctx) RegionVarCount() int { return int(c.nextRegVar) }

// commit runs f inside a top-level transaction spanning both variable
// stores: Regions.Commit nested inside Tys.Commit, so a region-side failure
// rolls back any type-side mutation f already made, and vice versa. Inside
// a Probe it runs f under a nested Try instead, so that Probe's rollback
// still undoes what f did.
func (c *Ctx) commit(f func() error) error {
	if c.probing > 0 {
		return c.Env.Tys.Try(func() error { return c.Env.Regions.Try(f) })
	}
	return c.Env.Tys.Commit(func() error {
		return c.Env.Regions.Commit(f)
	})
}

// MakeSubtype posts a <: b as a top-level constraint.
func (c *Ctx) MakeSubtype(a, b types.Type) error {
	return c.commit(func() error {
		_, err := (&combine.Sub{Env: c.Env}).Tys(a, b)
		return err
	})
}

// MakeEqual posts a == b (both subtype directions) as a top-level
// constraint.
func (c *Ctx) MakeEqual(a, b types.Type) error {
	return c.commit(func() error { return combine.EqTys(c.Env, a, b) })
}

// MakeSubregion posts a <: b over regions as a top-level constraint.
func (c *Ctx) MakeSubregion(a, b types.Region) error {
	return c.commit(func() error {
		_, err := (&combine.Sub{Env: c.Env}).Regions(a, b)
		return err
	})
}

// MakeAssignable posts assignability of a value of type exprTy, from
// expression expr within scope, to a binding of type target, as a top-level
// constraint.
func (c *Ctx) MakeAssignable(expr types.ExprID, scope types.BorrowScope, exprTy, target types.Type) error {
	return c.commit(func() error {
		_, err := assign.AssignTys(c.Env, assign.Assignment{Expr: expr, Scope: scope}, exprTy, target)
		return err
	})
}

// ResolveShallow substitutes each variable in t with its current bound,
// without recursing into that bound. A variable with no bound is left as
// it is.
func (c *Ctx) ResolveShallow(t types.Type) (types.Type, error) {
	r := &resolve.Resolver{Env: c.Env}
	return r.Ty(t)
}

// ResolveDeep substitutes every variable t transitively mentions with its
// current bound.
func (c *Ctx) ResolveDeep(t types.Type) (types.Type, error) {
	r := &resolve.Resolver{Env: c.Env, Deep: true}
	return r.Ty(t)
}

// ResolveDeepVar is ResolveDeep for a bare type variable, with ForceVars set
// so that a variable left wholly unbounded is reported as a FixupError
// rather than silently passed through — the shape a caller finalizing a
// binding's type wants once inference is otherwise complete.
func (c *Ctx) ResolveDeepVar(v types.TyVid) (types.Type, error) {
	r := &resolve.Resolver{Env: c.Env, Deep: true, ForceVars: true}
	return r.Ty(types.NewVar(v, false))
}

// CompareTypes reports whether a and b are related by subtyping in either
// direction, without posting any constraint: it runs the check inside a
// Try that is always rolled back, regardless of outcome. This is the
// read-only comparator a caller reaches for when it wants an answer, not a
// side effect (e.g. overload resolution narrowing candidates).
func (c *Ctx) CompareTypes(a, b types.Type) (aSubB, bSubA bool) {
	_ = c.Env.Tys.Try(func() error {
		return c.Env.Regions.Try(func() error {
			if _, err := (&combine.Sub{Env: c.Env}).Tys(a, b); err == nil {
				aSubB = true
			}
			if _, err := (&combine.Sub{Env: c.Env}).Tys(b, a); err == nil {
				bSubA = true
			}
			return errAlwaysRollback
		})
	})
	return aSubB, bSubA
}

// errAlwaysRollback is returned by the inner Try bodies CompareTypes and
// Probe use so that journal.Journal.Try always restores state regardless of
// what the probed comparison concluded.
var errAlwaysRollback = diagProbeSentinel{}

type diagProbeSentinel struct{}

func (diagProbeSentinel) Error() string { return "infer: probe rollback" }

// Probe runs f (which may post constraints via c) inside a transaction that
// is always rolled back afterward, and reports whether f itself returned a
// nil error. This is the snapshot API a caller reaches for when it wants to
// speculatively try a combination of constraints — for instance, to
// decide which overload of a function applies — without committing to
// whichever one it tries first.
func (c *Ctx) Probe(f func() error) bool {
	c.probing++
	defer func() { c.probing-- }()
	ok := false
	_ = c.Env.Tys.Try(func() error {
		return c.Env.Regions.Try(func() error {
			if err := f(); err == nil {
				ok = true
			}
			return errAlwaysRollback
		})
	})
	return ok
}

// Sink re-exports diag.Sink; diag.BugFunc turns one into the bug callback
// NewCtx takes (see diag.NewGlogSink).
type Sink = diag.Sink
