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

// Package resolve walks a type or region replacing inference variables with
// their current bound. A variable with neither bound resolved is left as-is
// (or reported, in ForceVars mode); a variable whose bound graph loops back
// on itself is reported as cyclic rather than recursed into forever, the
// same "visiting" set idiom a dependency-graph walk uses to guard against
// cycles.
package resolve

import (
	"strconv"

	"bitbucket.org/creachadair/stringset"

	"codeberg.org/TauCeti/tyinfer/combine"
	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/types"
	"codeberg.org/TauCeti/tyinfer/varstore"
)

func tyKey(v types.TyVid) string  { return "t" + strconv.Itoa(int(v)) }
func regKey(v types.RegVid) string { return "r" + strconv.Itoa(int(v)) }

// Resolver configures one resolve pass.
type Resolver struct {
	Env *combine.Env

	// Deep resolves recursively into a variable's own bound, which may
	// itself mention variables; Shallow (Deep == false) stops after one
	// substitution.
	Deep bool

	// ForceVars turns an unresolved variable (no bound present at all, or a
	// deep walk that bottoms out on one) into a FixupError instead of
	// leaving the variable node in place.
	ForceVars bool

	visitingTy  stringset.Set
	visitingReg stringset.Set
}

// Ty resolves t, replacing any type or region variable it mentions per the
// Resolver's Deep/ForceVars configuration.
func (r *Resolver) Ty(t types.Type) (types.Type, error) {
	r.visitingTy = stringset.New()
	r.visitingReg = stringset.New()
	return r.resolveTy(t)
}

// Region resolves a standalone region the same way Ty resolves a type's
// region positions.
func (r *Resolver) Region(reg types.Region) (types.Region, error) {
	r.visitingReg = stringset.New()
	return r.resolveRegion(reg)
}

func (r *Resolver) resolveTy(t types.Type) (types.Type, error) {
	if v, ok := t.IsVar(); ok {
		return r.resolveTyVar(v, t.Weak)
	}
	if !types.TypeNeedsInfer(t) {
		return t, nil
	}
	switch t.Kind {
	case types.TBox:
		mt, err := r.resolveMt(*t.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewBox(mt), nil
	case types.TUniq:
		mt, err := r.resolveMt(*t.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewUniq(mt), nil
	case types.TPtr:
		mt, err := r.resolveMt(*t.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewPtr(mt), nil
	case types.TRptr:
		reg, err := r.resolveRegion(t.Region)
		if err != nil {
			return types.Type{}, err
		}
		mt, err := r.resolveMt(*t.Mt)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewRptr(reg, mt), nil
	case types.TVec:
		elem, err := r.resolveTy(*t.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewVec(elem), nil
	case types.TEVec:
		vs, err := r.resolveVStore(t.VStore)
		if err != nil {
			return types.Type{}, err
		}
		elem, err := r.resolveTy(*t.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewEVec(elem, vs), nil
	case types.TEStr:
		vs, err := r.resolveVStore(t.VStore)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewEStr(vs), nil
	case types.TTup:
		elems := make([]types.Type, len(t.Tup))
		for i, e := range t.Tup {
			re, err := r.resolveTy(e)
			if err != nil {
				return types.Type{}, err
			}
			elems[i] = re
		}
		return types.NewTup(elems...), nil
	case types.TRec:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			rt, err := r.resolveTy(f.Ty)
			if err != nil {
				return types.Type{}, err
			}
			fields[i] = types.Field{Name: f.Name, Ty: rt}
		}
		return types.NewRec(fields...), nil
	case types.TFn:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			ra, err := r.resolveTy(a)
			if err != nil {
				return types.Type{}, err
			}
			args[i] = ra
		}
		ret, err := r.resolveTy(*t.Ret)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewFn(t.Proto, args, ret, t.RetStyle), nil
	case types.TEnum, types.TIface, types.TClass:
		substs, err := r.resolveSubsts(t.Substs)
		if err != nil {
			return types.Type{}, err
		}
		return types.Type{Kind: t.Kind, Name: t.Name, Substs: substs}, nil
	case types.TRes:
		arg, err := r.resolveTy(*t.ResArg)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewRes(t.Name, arg), nil
	case types.TConstr:
		base, err := r.resolveTy(*t.Base)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewConstr(base, t.Constrs...), nil
	default:
		return t, nil
	}
}

func (r *Resolver) resolveTyVar(v types.TyVid, weak bool) (types.Type, error) {
	if r.visitingTy.Contains(tyKey(v)) {
		return types.Type{}, &diag.FixupError{Kind: diag.ErrCyclicTy, TyVar: v}
	}
	root, bounds := r.Env.Tys.Get(varstore.ID(v))
	// Prefer the more specific bound: a non-bottom lower bound beats the
	// upper bound, which beats a bottom lower bound used as a last resort.
	ground := bounds.LB
	if ground == nil || ground.IsBot() {
		if bounds.UB != nil {
			ground = bounds.UB
		}
	}
	if ground == nil {
		if r.ForceVars {
			return types.Type{}, &diag.FixupError{Kind: diag.ErrUnresolvedTy, TyVar: types.TyVid(root)}
		}
		return types.NewVar(types.TyVid(root), weak), nil
	}
	if !r.Deep {
		return *ground, nil
	}
	r.visitingTy.Add(tyKey(v))
	defer r.visitingTy.Remove(tyKey(v))
	return r.resolveTy(*ground)
}

func (r *Resolver) resolveRegion(reg types.Region) (types.Region, error) {
	v, ok := reg.IsVar()
	if !ok {
		return reg, nil
	}
	if r.visitingReg.Contains(regKey(v)) {
		return types.Region{}, &diag.FixupError{Kind: diag.ErrCyclicRegion, RegVar: v}
	}
	root, bounds := r.Env.Regions.Get(varstore.ID(v))
	ground := bounds.LB
	if ground == nil {
		ground = bounds.UB
	}
	if ground == nil {
		if r.ForceVars {
			return types.Region{}, &diag.FixupError{Kind: diag.ErrUnresolvedRegion, RegVar: types.RegVid(root)}
		}
		return types.NewRegionVar(types.RegVid(root)), nil
	}
	if !r.Deep {
		return *ground, nil
	}
	r.visitingReg.Add(regKey(v))
	defer r.visitingReg.Remove(regKey(v))
	return r.resolveRegion(*ground)
}

func (r *Resolver) resolveMt(mt types.Mt) (types.Mt, error) {
	ty, err := r.resolveTy(mt.Ty)
	if err != nil {
		return types.Mt{}, err
	}
	return types.Mt{Ty: ty, Mutbl: mt.Mutbl}, nil
}

func (r *Resolver) resolveVStore(vs types.VStore) (types.VStore, error) {
	if vs.Kind != types.VStoreSlice {
		return vs, nil
	}
	reg, err := r.resolveRegion(vs.Region)
	if err != nil {
		return types.VStore{}, err
	}
	return types.VStore{Kind: types.VStoreSlice, Region: reg}, nil
}

func (r *Resolver) resolveSubsts(s types.Substs) (types.Substs, error) {
	tys := make([]types.Type, len(s.Types))
	for i, t := range s.Types {
		rt, err := r.resolveTy(t)
		if err != nil {
			return types.Substs{}, err
		}
		tys[i] = rt
	}
	regions := make([]types.Region, len(s.Regions))
	for i, reg := range s.Regions {
		rr, err := r.resolveRegion(reg)
		if err != nil {
			return types.Substs{}, err
		}
		regions[i] = rr
	}
	var selfRegion *types.Region
	if s.SelfRegion != nil {
		rr, err := r.resolveRegion(*s.SelfRegion)
		if err != nil {
			return types.Substs{}, err
		}
		selfRegion = &rr
	}
	return types.Substs{Types: tys, Regions: regions, SelfRegion: selfRegion}, nil
}
