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

// Package combine implements the three structural-walk combiners that post
// constraints to the variable stores: Sub (subtyping), Lub (least upper
// bound) and Glb (greatest lower bound). The three share one set of Super*
// structural-walk helpers; each combiner supplies its own variance by
// implementing the Combiner interface's leaf and contravariant methods
// differently.
package combine

import "codeberg.org/TauCeti/tyinfer/types"

// Combiner is the dispatch surface every Super* helper calls back into for
// nested positions, so that a single structural walk serves all three
// variance policies.
type Combiner interface {
	Tys(a, b types.Type) (types.Type, error)
	Regions(a, b types.Region) (types.Region, error)
	Mts(a, b types.Mt) (types.Mt, error)
	Fns(a, b types.Type) (types.Type, error)
	Args(a, b []types.Type) ([]types.Type, error)
	Substs(a, b types.Substs) (types.Substs, error)
	Tps(a, b []types.Type) ([]types.Type, error)
	Flds(a, b []types.Field) ([]types.Field, error)
	VStores(a, b types.VStore) (types.VStore, error)
	Protos(a, b types.FnProto) (types.FnProto, error)
	RetStyles(a, b types.RetStyle) (types.RetStyle, error)
	SelfTys(a, b *types.Type) (*types.Type, error)
	ContraTys(a, b types.Type) (types.Type, error)
	ContraRegions(a, b types.Region) (types.Region, error)
}

// EqTys posts both directions of a subtype relation between a and b, which
// is what "two types are equal" means to the core: MakeEqual succeeds iff
// MakeSubtype holds both ways. Both directions are posted for real against
// env, not probed and discarded; the caller's enclosing Try/Commit is what
// makes a failure roll back.
func EqTys(env *Env, a, b types.Type) error {
	if _, err := (&Sub{Env: env}).Tys(a, b); err != nil {
		return err
	}
	if _, err := (&Sub{Env: env}).Tys(b, a); err != nil {
		return err
	}
	return nil
}
