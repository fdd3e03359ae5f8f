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
	"codeberg.org/TauCeti/tyinfer/types"
)

// SuperTys is the shared structural walk over two types of identical Kind:
// it dispatches each nested position back through c, which
// is what gives Sub, Lub and Glb three different results from one walk.
// Callers are expected to have already handled the variable and (for Lub and
// Glb) bottom-type short-circuits; SuperTys only ever sees two ground,
// non-var shapes.
func SuperTys(c Combiner, a, b types.Type) (types.Type, error) {
	if a.Kind != b.Kind {
		return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: b, Actual: a}
	}
	switch a.Kind {
	case types.TBool, types.TStr, types.TBot:
		return a, nil

	case types.TInt:
		if a.Name != b.Name {
			return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: b, Actual: a}
		}
		return a, nil

	case types.TBox:
		mt, err := c.Mts(*a.Mt, *b.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewBox(mt), nil

	case types.TUniq:
		mt, err := c.Mts(*a.Mt, *b.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewUniq(mt), nil

	case types.TPtr:
		mt, err := c.Mts(*a.Mt, *b.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewPtr(mt), nil

	case types.TRptr:
		r, err := c.Regions(a.Region, b.Region)
		if err != nil {
			return types.Type{}, err
		}
		mt, err := c.Mts(*a.Mt, *b.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewRptr(r, mt), nil

	case types.TVec:
		elem, err := c.Tys(*a.Elem, *b.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewVec(elem), nil

	case types.TEVec:
		vs, err := c.VStores(a.VStore, b.VStore)
		if err != nil {
			return types.Type{}, err
		}
		elem, err := c.Tys(*a.Elem, *b.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewEVec(elem, vs), nil

	case types.TEStr:
		vs, err := c.VStores(a.VStore, b.VStore)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewEStr(vs), nil

	case types.TTup:
		if len(a.Tup) != len(b.Tup) {
			return types.Type{}, &diag.TypeError{Kind: diag.ErrTupleSize, NExp: len(b.Tup), NAct: len(a.Tup)}
		}
		elems, err := c.Tps(a.Tup, b.Tup)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewTup(elems...), nil

	case types.TRec:
		flds, err := c.Flds(a.Fields, b.Fields)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewRec(flds...), nil

	case types.TFn:
		return c.Fns(a, b)

	case types.TEnum, types.TIface, types.TClass:
		if a.Name != b.Name {
			return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: b, Actual: a}
		}
		substs, err := c.Substs(a.Substs, b.Substs)
		if err != nil {
			return types.Type{}, err
		}
		return types.Type{Kind: a.Kind, Name: a.Name, Substs: substs}, nil

	case types.TRes:
		if a.Name != b.Name {
			return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: b, Actual: a}
		}
		arg, err := c.Tys(*a.ResArg, *b.ResArg)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewRes(a.Name, arg), nil

	case types.TConstr:
		base, err := c.Tys(*a.Base, *b.Base)
		if err != nil {
			return types.Type{}, err
		}
		if len(a.Constrs) != len(b.Constrs) {
			return types.Type{}, &diag.TypeError{Kind: diag.ErrConstrLen, NExp: len(b.Constrs), NAct: len(a.Constrs)}
		}
		for i := range a.Constrs {
			if a.Constrs[i].Name != b.Constrs[i].Name || len(a.Constrs[i].Args) != len(b.Constrs[i].Args) {
				return types.Type{}, &diag.TypeError{Kind: diag.ErrConstrMismatch}
			}
		}
		// Constraints are compared by name and argument count only; their
		// argument types are neither related nor combined, since constraint
		// satisfaction is outside the core's scope (types.Constr's doc
		// comment), so the result just carries a's list.
		return types.NewConstr(base, a.Constrs...), nil

	default:
		return types.Type{}, &diag.TypeError{Kind: diag.ErrSorts, Expected: b, Actual: a}
	}
}

// SuperFns is the shared Fn structural walk: equal arity, pairwise
// contravariant arguments (via c.Args, which in turn calls c.ContraTys per
// position), a covariant return type, and opaque-tag agreement on calling
// convention and return style.
func SuperFns(c Combiner, a, b types.Type) (types.Type, error) {
	if len(a.Args) != len(b.Args) {
		return types.Type{}, &diag.TypeError{Kind: diag.ErrArgCount, NExp: len(b.Args), NAct: len(a.Args)}
	}
	args, err := c.Args(a.Args, b.Args)
	if err != nil {
		return types.Type{}, err
	}
	ret, err := c.Tys(*a.Ret, *b.Ret)
	if err != nil {
		return types.Type{}, err
	}
	proto, err := c.Protos(a.Proto, b.Proto)
	if err != nil {
		return types.Type{}, err
	}
	retStyle, err := c.RetStyles(a.RetStyle, b.RetStyle)
	if err != nil {
		return types.Type{}, err
	}
	return types.NewFn(proto, args, ret, retStyle), nil
}

// SuperArgs relates each argument pairwise through c.ContraTys: a function
// type is contravariant in its arguments, so a combiner's own ContraTys
// method (which flips Sub's direction, or swaps Lub for Glb) is what gives
// this one walk the right variance per combiner.
func SuperArgs(c Combiner, a, b []types.Type) ([]types.Type, error) {
	out := make([]types.Type, len(a))
	for i := range a {
		t, err := c.ContraTys(a[i], b[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// SuperTps relates a list of types pairwise, covariantly, through c.Tys. It
// is used for tuple elements and nominal type-parameter lists, where the
// surrounding type does not reverse variance the way function arguments do.
func SuperTps(c Combiner, a, b []types.Type) ([]types.Type, error) {
	out := make([]types.Type, len(a))
	for i := range a {
		t, err := c.Tys(a[i], b[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// SuperFlds relates two record field lists: same length, fields paired
// positionally (records are structural in field order, not matched by
// name-set), names must agree per position, and each field's type is
// related covariantly through c.Tys.
func SuperFlds(c Combiner, a, b []types.Field) ([]types.Field, error) {
	if len(a) != len(b) {
		return nil, &diag.TypeError{Kind: diag.ErrRecordSize, NExp: len(b), NAct: len(a)}
	}
	out := make([]types.Field, len(a))
	for i := range a {
		if a[i].Name != b[i].Name {
			return nil, &diag.TypeError{Kind: diag.ErrRecordFields, FieldExp: b[i].Name, FieldAct: a[i].Name}
		}
		t, err := c.Tys(a[i].Ty, b[i].Ty)
		if err != nil {
			return nil, &diag.TypeError{Kind: diag.ErrInField, Field: a[i].Name, Inner: err}
		}
		out[i] = types.Field{Name: a[i].Name, Ty: t}
	}
	return out, nil
}

// SuperSubsts relates two Substs' type and region argument lists
// positionally, and checks self-region presence: a disagreement there is
// returned as a TypeError of kind diag.ErrSelfSubsts (types.Substs's doc
// comment); when both are present they are related through c.Regions.
func SuperSubsts(c Combiner, a, b types.Substs) (types.Substs, error) {
	if len(a.Types) != len(b.Types) {
		return types.Substs{}, &diag.TypeError{Kind: diag.ErrTyParamSize, NExp: len(b.Types), NAct: len(a.Types)}
	}
	tys, err := c.Tps(a.Types, b.Types)
	if err != nil {
		return types.Substs{}, err
	}
	if len(a.Regions) != len(b.Regions) {
		return types.Substs{}, &diag.TypeError{Kind: diag.ErrTyParamSize, NExp: len(b.Regions), NAct: len(a.Regions)}
	}
	regions := make([]types.Region, len(a.Regions))
	for i := range a.Regions {
		r, err := c.Regions(a.Regions[i], b.Regions[i])
		if err != nil {
			return types.Substs{}, err
		}
		regions[i] = r
	}
	if (a.SelfRegion == nil) != (b.SelfRegion == nil) {
		return types.Substs{}, &diag.TypeError{Kind: diag.ErrSelfSubsts}
	}
	var selfRegion *types.Region
	if a.SelfRegion != nil {
		r, err := c.Regions(*a.SelfRegion, *b.SelfRegion)
		if err != nil {
			return types.Substs{}, err
		}
		selfRegion = &r
	}
	return types.Substs{Types: tys, Regions: regions, SelfRegion: selfRegion}, nil
}

// SuperVStores relates two backing-store descriptors: same kind is
// required; a fixed store additionally requires equal size, and a slice
// store relates its region through c.Regions (so a borrowed slice can still
// participate in region subtyping even though its owning kind cannot).
func SuperVStores(c Combiner, a, b types.VStore) (types.VStore, error) {
	if a.Kind != b.Kind {
		return types.VStore{}, &diag.TypeError{Kind: diag.ErrVStoresDiffer}
	}
	switch a.Kind {
	case types.VStoreFixed:
		if a.Fixed != b.Fixed {
			return types.VStore{}, &diag.TypeError{Kind: diag.ErrVStoresDiffer}
		}
		return a, nil
	case types.VStoreSlice:
		r, err := c.Regions(a.Region, b.Region)
		if err != nil {
			return types.VStore{}, err
		}
		return types.VStore{Kind: types.VStoreSlice, Region: r}, nil
	default:
		return a, nil
	}
}

// SuperSelfTys relates an optional receiver-type pair (the "Self" type bound
// a trait/interface method carries): both absent succeeds trivially, a
// presence mismatch is returned as a TypeError of kind diag.ErrSelfSubsts,
// and both-present relates the pointed-to types through c.Tys.
func SuperSelfTys(c Combiner, a, b *types.Type) (*types.Type, error) {
	if a == nil && b == nil {
		return nil, nil
	}
	if (a == nil) != (b == nil) {
		return nil, &diag.TypeError{Kind: diag.ErrSelfSubsts}
	}
	t, err := c.Tys(*a, *b)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
