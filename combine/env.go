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
	"codeberg.org/TauCeti/tyinfer/merge"
	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/types"
	"codeberg.org/TauCeti/tyinfer/varstore"
)

// Env is the shared state every combiner closes over: the two variable
// stores, the type-interning context, and the region oracle.
// Sub, Lub and Glb are thin, stateless wrappers around a *Env; three of them
// can share one Env freely since none of them hold mutable state of their
// own, only the Env's stores do.
type Env struct {
	Tys     *varstore.Store[types.Type]
	Regions *varstore.Store[types.Region]
	TC      types.TypeContext
	Oracle  region.Oracle
}

// NewEnv constructs an Env with both variable stores wired to lattice
// adapters that dispatch back into this same Env's Sub/Lub/Glb combiners.
// The two stores and the lattice adapters they hold form a reference cycle
// through env, which is fine in Go: the adapters only read env.* at call
// time, long after construction has finished.
func NewEnv(tc types.TypeContext, oracle region.Oracle, bug func(string)) *Env {
	env := &Env{TC: tc, Oracle: oracle}
	env.Tys = varstore.New[types.Type](typeLatticeAdapter{env}, bug)
	env.Regions = varstore.New[types.Region](regionLatticeAdapter{env}, bug)
	return env
}

// typeLatticeAdapter satisfies merge.Lattice[types.Type] by delegating to
// this Env's Sub/Lub/Glb combiners, so varstore.Store[types.Type] can merge
// bounds without knowing anything about type structure.
type typeLatticeAdapter struct{ env *Env }

func (l typeLatticeAdapter) SubCheck(a, b types.Type) error {
	_, err := (&Sub{Env: l.env}).Tys(a, b)
	return err
}

func (l typeLatticeAdapter) Lub(a, b types.Type) (types.Type, error) {
	return (&Lub{Env: l.env}).Tys(a, b)
}

func (l typeLatticeAdapter) Glb(a, b types.Type) (types.Type, error) {
	return (&Glb{Env: l.env}).Tys(a, b)
}

var _ merge.Lattice[types.Type] = typeLatticeAdapter{}

// regionLatticeAdapter is the region analogue of typeLatticeAdapter.
type regionLatticeAdapter struct{ env *Env }

func (l regionLatticeAdapter) SubCheck(a, b types.Region) error {
	_, err := (&Sub{Env: l.env}).Regions(a, b)
	return err
}

func (l regionLatticeAdapter) Lub(a, b types.Region) (types.Region, error) {
	return (&Lub{Env: l.env}).Regions(a, b)
}

func (l regionLatticeAdapter) Glb(a, b types.Region) (types.Region, error) {
	return (&Glb{Env: l.env}).Regions(a, b)
}

var _ merge.Lattice[types.Region] = regionLatticeAdapter{}
