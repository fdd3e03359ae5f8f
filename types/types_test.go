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

package types

import "testing"

func TestEqualsGroundTypes(t *testing.T) {
	cases := []struct {
		name string
		a, b Type
		want bool
	}{
		{"bool==bool", Bool, Bool, true},
		{"bool!=str", Bool, Str, false},
		{"i32==i32", Int(32), Int(32), true},
		{"i32!=i64", Int(32), Int(64), false},
		{"bot==bot", Bot, Bot, true},
		{"var same id", NewVar(1, false), NewVar(1, false), true},
		{"var different id", NewVar(1, false), NewVar(2, false), false},
		{"var weak irrelevant to equality", NewVar(1, false), NewVar(1, true), true},
	}
	for _, c := range cases {
		if got := c.a.Equals(c.b); got != c.want {
			t.Errorf("%s: Equals = %v; want %v", c.name, got, c.want)
		}
	}
}

func TestEqualsStructuralTypes(t *testing.T) {
	imm := Mt{Ty: Bool, Mutbl: Imm}
	mut := Mt{Ty: Bool, Mutbl: Mutbl}

	if !NewBox(imm).Equals(NewBox(imm)) {
		t.Error("NewBox(imm) should equal itself")
	}
	if NewBox(imm).Equals(NewBox(mut)) {
		t.Error("box<imm bool> should not equal box<mut bool>")
	}

	r1 := NewScope(1)
	r2 := NewScope(2)
	if !NewRptr(r1, imm).Equals(NewRptr(r1, imm)) {
		t.Error("matching rptrs should be equal")
	}
	if NewRptr(r1, imm).Equals(NewRptr(r2, imm)) {
		t.Error("rptrs over different regions should not be equal")
	}

	tup1 := NewTup(Bool, Str)
	tup2 := NewTup(Bool, Str)
	tup3 := NewTup(Bool, Int(32))
	if !tup1.Equals(tup2) {
		t.Error("matching tuples should be equal")
	}
	if tup1.Equals(tup3) {
		t.Error("tuples with different element types should not be equal")
	}
	if tup1.Equals(NewTup(Bool)) {
		t.Error("tuples of different arity should not be equal")
	}

	rec1 := NewRec(Field{Name: "x", Ty: Bool}, Field{Name: "y", Ty: Str})
	rec2 := NewRec(Field{Name: "x", Ty: Bool}, Field{Name: "y", Ty: Str})
	rec3 := NewRec(Field{Name: "x", Ty: Bool}, Field{Name: "z", Ty: Str})
	if !rec1.Equals(rec2) {
		t.Error("matching records should be equal")
	}
	if rec1.Equals(rec3) {
		t.Error("records with differing field names should not be equal")
	}

	fn1 := NewFn(0, []Type{Bool}, Str, 0)
	fn2 := NewFn(0, []Type{Bool}, Str, 0)
	fn3 := NewFn(0, []Type{Int(32)}, Str, 0)
	if !fn1.Equals(fn2) {
		t.Error("matching fns should be equal")
	}
	if fn1.Equals(fn3) {
		t.Error("fns with differing arg types should not be equal")
	}
}

func TestEqualsNominalTypes(t *testing.T) {
	substs := Substs{Types: []Type{Bool}}
	a := NewEnum("Option", substs)
	b := NewEnum("Option", substs)
	c := NewEnum("Result", substs)
	d := NewIface("Option", substs)
	if !a.Equals(b) {
		t.Error("same-named enums with matching substs should be equal")
	}
	if a.Equals(c) {
		t.Error("differently-named enums should not be equal")
	}
	if a.Equals(d) {
		t.Error("an enum and an iface with the same name should not be equal")
	}
}

func TestIsVar(t *testing.T) {
	v, ok := NewVar(5, false).IsVar()
	if !ok || v != 5 {
		t.Fatalf("IsVar(NewVar(5)) = %v, %v; want 5, true", v, ok)
	}
	if _, ok := Bool.IsVar(); ok {
		t.Fatal("IsVar(Bool) = true; want false")
	}
}

func TestIsBot(t *testing.T) {
	if !Bot.IsBot() {
		t.Error("Bot.IsBot() = false; want true")
	}
	if Bool.IsBot() {
		t.Error("Bool.IsBot() = true; want false")
	}
}

func TestMachStyDistinguishesKindAndVar(t *testing.T) {
	if Bool.MachSty() == Str.MachSty() {
		t.Error("Bool and Str collide under MachSty")
	}
	if NewVar(1, false).MachSty() == NewVar(2, false).MachSty() {
		t.Error("distinct var ids collide under MachSty")
	}
}

func TestSubstsEquals(t *testing.T) {
	r := NewScope(1)
	a := Substs{Types: []Type{Bool}, Regions: []Region{r}}
	b := Substs{Types: []Type{Bool}, Regions: []Region{r}}
	if !a.Equals(b) {
		t.Error("identical substs should be equal")
	}

	selfA := a
	selfA.SelfRegion = &r
	if selfA.Equals(b) {
		t.Error("substs differing only in self-region presence should not be equal")
	}
}

func TestVStoreEquals(t *testing.T) {
	if !(VStore{Kind: VStoreFixed, Fixed: 4}).Equals(VStore{Kind: VStoreFixed, Fixed: 4}) {
		t.Error("matching fixed vstores should be equal")
	}
	if (VStore{Kind: VStoreFixed, Fixed: 4}).Equals(VStore{Kind: VStoreFixed, Fixed: 8}) {
		t.Error("fixed vstores of different size should not be equal")
	}
	s1 := VStore{Kind: VStoreSlice, Region: NewScope(1)}
	s2 := VStore{Kind: VStoreSlice, Region: NewScope(2)}
	if s1.Equals(s2) {
		t.Error("slice vstores over different regions should not be equal")
	}
	if !(VStore{Kind: VStoreUniq}).Equals(VStore{Kind: VStoreUniq}) {
		t.Error("matching uniq vstores should be equal")
	}
}

func TestBorrowable(t *testing.T) {
	for _, vs := range []VStore{{Kind: VStoreFixed}, {Kind: VStoreUniq}, {Kind: VStoreBox}} {
		if !Borrowable(vs) {
			t.Errorf("Borrowable(%v) = false; want true", vs)
		}
	}
	if Borrowable(VStore{Kind: VStoreSlice}) {
		t.Error("Borrowable(slice) = true; want false")
	}
}

func TestStringRendersReadableForms(t *testing.T) {
	cases := []struct {
		ty   Type
		want string
	}{
		{Bool, "bool"},
		{Str, "str"},
		{Bot, "bot"},
		{Int(32), "i32"},
		{NewVar(3, false), "?3"},
		{NewVar(3, true), "?3(weak)"},
		{NewTup(Bool, Str), "(bool, str)"},
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("%v.String() = %q; want %q", c.ty, got, c.want)
		}
	}
}
