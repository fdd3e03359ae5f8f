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
	"codeberg.org/TauCeti/tyinfer/merge"
	"codeberg.org/TauCeti/tyinfer/types"
	"codeberg.org/TauCeti/tyinfer/varstore"
)

// Lub implements the least-upper-bound combiner: join(a, b).
type Lub struct{ Env *Env }

var _ Combiner = (*Lub)(nil)

func typeLubOps() latticeOps[types.Type] {
	return latticeOps[types.Type]{
		bnd:     func(b merge.Bounds[types.Type]) merge.Bound[types.Type] { return b.UB },
		withBnd: func(b merge.Bounds[types.Type], t types.Type) merge.Bounds[types.Type] { b.UB = &t; return b },
		wrapVar: func(id varstore.ID) types.Type { return types.NewVar(types.TyVid(id), false) },
	}
}

func regionLubOps() latticeOps[types.Region] {
	return latticeOps[types.Region]{
		bnd:     func(b merge.Bounds[types.Region]) merge.Bound[types.Region] { return b.UB },
		withBnd: func(b merge.Bounds[types.Region], t types.Region) merge.Bounds[types.Region] { b.UB = &t; return b },
		wrapVar: func(id varstore.ID) types.Region { return types.NewRegionVar(types.RegVid(id)) },
	}
}

func tyBotIdentity(t types.Type) types.Type { return t }

// Tys computes the least upper bound of a and b. A bottom value on either
// side resolves to the other side (join with bottom is the other value).
func (l *Lub) Tys(a, b types.Type) (types.Type, error) {
	ops := typeLubOps()
	return ops.dispatch(l.Env.Tys, a, b, types.Type.Equals, typeIsVar, types.Type.IsBot, tyBotIdentity,
		func(x, y types.Type) (types.Type, error) { return SuperTys(l, x, y) })
}

// Regions computes the least upper bound of a and b: 'static absorbs
// anything; a free region and an enclosing scope join to the free region
// (or 'static, if the free region does not in fact enclose the scope); two
// scopes join to their nearest common ancestor scope (or 'static, if the
// oracle knows none).
func (l *Lub) Regions(a, b types.Region) (types.Region, error) {
	ops := regionLubOps()
	return ops.dispatch(l.Env.Regions, a, b, types.Region.Equals, regionIsVar, nil, nil,
		func(x, y types.Region) (types.Region, error) { return groundLubRegions(l.Env, x, y) })
}

// Mts computes the least upper bound of two Mt pairs: differing mutability
// always joins to const; matching mutable
// qualifiers keep mut only if the inner types are equal, else fall back to
// const; matching imm/const qualifiers join covariantly and keep the shared
// qualifier.
func (l *Lub) Mts(a, b types.Mt) (types.Mt, error) {
	if a.Mutbl != b.Mutbl {
		ty, err := l.Tys(a.Ty, b.Ty)
		if err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: ty, Mutbl: types.Const}, nil
	}
	if a.Mutbl == types.Mutbl {
		if EqTys(l.Env, a.Ty, b.Ty) == nil {
			return types.Mt{Ty: a.Ty, Mutbl: types.Mutbl}, nil
		}
		ty, err := l.Tys(a.Ty, b.Ty)
		if err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: ty, Mutbl: types.Const}, nil
	}
	ty, err := l.Tys(a.Ty, b.Ty)
	if err != nil {
		return types.Mt{}, err
	}
	return types.Mt{Ty: ty, Mutbl: a.Mutbl}, nil
}

func (l *Lub) Fns(a, b types.Type) (types.Type, error)     { return SuperFns(l, a, b) }
func (l *Lub) Args(a, b []types.Type) ([]types.Type, error)   { return SuperArgs(l, a, b) }
func (l *Lub) Tps(a, b []types.Type) ([]types.Type, error)    { return SuperTps(l, a, b) }
func (l *Lub) Flds(a, b []types.Field) ([]types.Field, error) { return SuperFlds(l, a, b) }
func (l *Lub) Substs(a, b types.Substs) (types.Substs, error)  { return SuperSubsts(l, a, b) }
func (l *Lub) VStores(a, b types.VStore) (types.VStore, error) { return SuperVStores(l, a, b) }
func (l *Lub) SelfTys(a, b *types.Type) (*types.Type, error)    { return SuperSelfTys(l, a, b) }

// ContraTys is a contravariant position under a join: a function argument
// position that is contravariant turns Lub into Glb.
func (l *Lub) ContraTys(a, b types.Type) (types.Type, error) { return (&Glb{Env: l.Env}).Tys(a, b) }

// ContraRegions is the region analogue of ContraTys.
func (l *Lub) ContraRegions(a, b types.Region) (types.Region, error) {
	return (&Glb{Env: l.Env}).Regions(a, b)
}

func (l *Lub) Protos(a, b types.FnProto) (types.FnProto, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrProtoMismatch}
	}
	return a, nil
}

func (l *Lub) RetStyles(a, b types.RetStyle) (types.RetStyle, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrRetStyleMismatch}
	}
	return a, nil
}

func typeIsVar(t types.Type) (varstore.ID, bool) {
	v, ok := t.IsVar()
	return varstore.ID(v), ok
}

func regionIsVar(r types.Region) (varstore.ID, bool) {
	v, ok := r.IsVar()
	return varstore.ID(v), ok
}
