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

// Glb implements the greatest-lower-bound combiner: meet(a, b).
type Glb struct{ Env *Env }

var _ Combiner = (*Glb)(nil)

func typeGlbOps() latticeOps[types.Type] {
	return latticeOps[types.Type]{
		bnd:     func(b merge.Bounds[types.Type]) merge.Bound[types.Type] { return b.LB },
		withBnd: func(b merge.Bounds[types.Type], t types.Type) merge.Bounds[types.Type] { b.LB = &t; return b },
		wrapVar: func(id varstore.ID) types.Type { return types.NewVar(types.TyVid(id), false) },
	}
}

func regionGlbOps() latticeOps[types.Region] {
	return latticeOps[types.Region]{
		bnd:     func(b merge.Bounds[types.Region]) merge.Bound[types.Region] { return b.LB },
		withBnd: func(b merge.Bounds[types.Region], t types.Region) merge.Bounds[types.Region] { b.LB = &t; return b },
		wrapVar: func(id varstore.ID) types.Region { return types.NewRegionVar(types.RegVid(id)) },
	}
}

func tyBotConst(types.Type) types.Type { return types.Bot }

// Tys computes the greatest lower bound of a and b. A bottom value on
// either side resolves the meet to bottom.
func (g *Glb) Tys(a, b types.Type) (types.Type, error) {
	ops := typeGlbOps()
	return ops.dispatch(g.Env.Tys, a, b, types.Type.Equals, typeIsVar, types.Type.IsBot, tyBotConst,
		func(x, y types.Type) (types.Type, error) { return SuperTys(g, x, y) })
}

// Regions computes the greatest lower bound of a and b: 'static is an
// identity element; two scopes meet to whichever is the (strict) descendant
// of the other, else it is a programmer-visible mismatch since neither
// outlives the other; a free region and a scope it does not in fact enclose
// is likewise a mismatch.
func (g *Glb) Regions(a, b types.Region) (types.Region, error) {
	ops := regionGlbOps()
	return ops.dispatch(g.Env.Regions, a, b, types.Region.Equals, regionIsVar, nil, nil,
		func(x, y types.Region) (types.Region, error) { return groundGlbRegions(g.Env, x, y) })
}

// Mts computes the greatest lower bound of two Mt pairs: two mut sides
// require equal inner types and meet to
// mut; a mut side paired with a const side requires the mut side's type to
// be a subtype of the const side's (so it is safe to treat the result as
// mutable) and meets to mut; two imm/const sides meet covariantly and keep
// imm only if both sides were imm; a mut paired with an imm is rejected
// outright, since neither aliasing discipline is safe to assume for the
// other.
func (g *Glb) Mts(a, b types.Mt) (types.Mt, error) {
	switch {
	case a.Mutbl == types.Mutbl && b.Mutbl == types.Mutbl:
		if err := EqTys(g.Env, a.Ty, b.Ty); err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: a.Ty, Mutbl: types.Mutbl}, nil

	case a.Mutbl == types.Mutbl && b.Mutbl == types.Const:
		if _, err := (&Sub{Env: g.Env}).Tys(a.Ty, b.Ty); err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: a.Ty, Mutbl: types.Mutbl}, nil

	case a.Mutbl == types.Const && b.Mutbl == types.Mutbl:
		if _, err := (&Sub{Env: g.Env}).Tys(b.Ty, a.Ty); err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: b.Ty, Mutbl: types.Mutbl}, nil

	case (a.Mutbl == types.Imm || a.Mutbl == types.Const) && (b.Mutbl == types.Imm || b.Mutbl == types.Const):
		ty, err := g.Tys(a.Ty, b.Ty)
		if err != nil {
			return types.Mt{}, err
		}
		mutbl := types.Const
		if a.Mutbl == types.Imm && b.Mutbl == types.Imm {
			mutbl = types.Imm
		}
		return types.Mt{Ty: ty, Mutbl: mutbl}, nil

	default:
		return types.Mt{}, &diag.TypeError{Kind: diag.ErrMutability}
	}
}

func (g *Glb) Fns(a, b types.Type) (types.Type, error)     { return SuperFns(g, a, b) }
func (g *Glb) Args(a, b []types.Type) ([]types.Type, error)   { return SuperArgs(g, a, b) }
func (g *Glb) Tps(a, b []types.Type) ([]types.Type, error)    { return SuperTps(g, a, b) }
func (g *Glb) Flds(a, b []types.Field) ([]types.Field, error) { return SuperFlds(g, a, b) }
func (g *Glb) Substs(a, b types.Substs) (types.Substs, error)  { return SuperSubsts(g, a, b) }
func (g *Glb) VStores(a, b types.VStore) (types.VStore, error) { return SuperVStores(g, a, b) }
func (g *Glb) SelfTys(a, b *types.Type) (*types.Type, error)    { return SuperSelfTys(g, a, b) }

// ContraTys is a contravariant position under a meet: it turns Glb into Lub.
func (g *Glb) ContraTys(a, b types.Type) (types.Type, error) { return (&Lub{Env: g.Env}).Tys(a, b) }

// ContraRegions is the region analogue of ContraTys.
func (g *Glb) ContraRegions(a, b types.Region) (types.Region, error) {
	return (&Lub{Env: g.Env}).Regions(a, b)
}

func (g *Glb) Protos(a, b types.FnProto) (types.FnProto, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrProtoMismatch}
	}
	return a, nil
}

func (g *Glb) RetStyles(a, b types.RetStyle) (types.RetStyle, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrRetStyleMismatch}
	}
	return a, nil
}
