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
	"codeberg.org/TauCeti/tyinfer/varstore"
)

// Sub implements the subtyping combiner: a <: b.
type Sub struct{ Env *Env }

var _ Combiner = (*Sub)(nil)

// Tys relates a <: b. A bottom left side always succeeds (bot is a subtype
// of everything); a bottom right side does not short-circuit, since bot is
// not a supertype of anything but itself and a.Equals(b) already covers
// that case.
func (s *Sub) Tys(a, b types.Type) (types.Type, error) {
	if a.Equals(b) {
		return a, nil
	}
	if a.IsBot() {
		return b, nil
	}
	va, aIsVar := a.IsVar()
	vb, bIsVar := b.IsVar()
	switch {
	case aIsVar && bIsVar:
		if err := s.Env.Tys.RelateVars(varstore.ID(va), varstore.ID(vb)); err != nil {
			return types.Type{}, err
		}
		return a, nil
	case aIsVar && !bIsVar:
		if err := s.Env.Tys.RelateVarGround(varstore.ID(va), b); err != nil {
			return types.Type{}, err
		}
		return b, nil
	case !aIsVar && bIsVar:
		if err := s.Env.Tys.RelateGroundVar(a, varstore.ID(vb)); err != nil {
			return types.Type{}, err
		}
		return a, nil
	default:
		return SuperTys(s, a, b)
	}
}

// Regions relates a <: b. Variables are related exactly like type
// variables; the ground/ground case defers to Lub and requires the result
// to equal b.
func (s *Sub) Regions(a, b types.Region) (types.Region, error) {
	if a.Equals(b) {
		return a, nil
	}
	va, aIsVar := a.IsVar()
	vb, bIsVar := b.IsVar()
	switch {
	case aIsVar && bIsVar:
		if err := s.Env.Regions.RelateVars(varstore.ID(va), varstore.ID(vb)); err != nil {
			return types.Region{}, err
		}
		return a, nil
	case aIsVar && !bIsVar:
		if err := s.Env.Regions.RelateVarGround(varstore.ID(va), b); err != nil {
			return types.Region{}, err
		}
		return b, nil
	case !aIsVar && bIsVar:
		if err := s.Env.Regions.RelateGroundVar(a, varstore.ID(vb)); err != nil {
			return types.Region{}, err
		}
		return a, nil
	default:
		lubbed, err := (&Lub{Env: s.Env}).Regions(a, b)
		if err != nil {
			return types.Region{}, err
		}
		if !lubbed.Equals(b) {
			return types.Region{}, &diag.TypeError{Kind: diag.ErrRegionsDiffer, RExp: b, RAct: a}
		}
		return b, nil
	}
}

// Mts relates a.ty <: b.ty under a's and b's mutability qualifiers: a
// const right side absorbs anything (covariant inner
// type); a mutable right side requires an equally mutable left side and
// invariance of the inner type; an immutable right side requires an
// equally immutable left side and covariance of the inner type.
func (s *Sub) Mts(a, b types.Mt) (types.Mt, error) {
	if b.Mutbl == types.Const {
		ty, err := s.Tys(a.Ty, b.Ty)
		if err != nil {
			return types.Mt{}, err
		}
		return types.Mt{Ty: ty, Mutbl: types.Const}, nil
	}
	if a.Mutbl != b.Mutbl {
		return types.Mt{}, &diag.TypeError{Kind: diag.ErrMutability}
	}
	if b.Mutbl == types.Mutbl {
		if err := EqTys(s.Env, a.Ty, b.Ty); err != nil {
			return types.Mt{}, err
		}
		return b, nil
	}
	ty, err := s.Tys(a.Ty, b.Ty)
	if err != nil {
		return types.Mt{}, err
	}
	return types.Mt{Ty: ty, Mutbl: types.Imm}, nil
}

func (s *Sub) Fns(a, b types.Type) (types.Type, error)   { return SuperFns(s, a, b) }
func (s *Sub) Args(a, b []types.Type) ([]types.Type, error) { return SuperArgs(s, a, b) }
func (s *Sub) Tps(a, b []types.Type) ([]types.Type, error)  { return SuperTps(s, a, b) }
func (s *Sub) Flds(a, b []types.Field) ([]types.Field, error) { return SuperFlds(s, a, b) }
func (s *Sub) Substs(a, b types.Substs) (types.Substs, error)  { return SuperSubsts(s, a, b) }
func (s *Sub) VStores(a, b types.VStore) (types.VStore, error) { return SuperVStores(s, a, b) }
func (s *Sub) SelfTys(a, b *types.Type) (*types.Type, error)    { return SuperSelfTys(s, a, b) }

// ContraTys flips direction for a contravariant position: a <: b in a
// contravariant slot means the combined relation posted is b <: a.
func (s *Sub) ContraTys(a, b types.Type) (types.Type, error) { return s.Tys(b, a) }

// ContraRegions is the region analogue of ContraTys.
func (s *Sub) ContraRegions(a, b types.Region) (types.Region, error) { return s.Regions(b, a) }

// Protos requires exact agreement: two calling conventions either match or
// they don't, so the general "defer to Lub and require the result equals b"
// rule collapses to equality here.
func (s *Sub) Protos(a, b types.FnProto) (types.FnProto, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrProtoMismatch}
	}
	return a, nil
}

// RetStyles is the return-style analogue of Protos.
func (s *Sub) RetStyles(a, b types.RetStyle) (types.RetStyle, error) {
	if a != b {
		return 0, &diag.TypeError{Kind: diag.ErrRetStyleMismatch}
	}
	return a, nil
}
