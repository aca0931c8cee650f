package types

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{Dyn, "dyn"},
		{Int, "int"},
		{NewList(String), "list<string>"},
		{NewMap(String, Int), "map<string, int>"},
		{NewOptional(NewList(Dyn)), "optional<list<dyn>>"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(NewList(Int), NewList(Int)) {
		t.Error("list<int> should equal list<int>")
	}
	if Equal(NewList(Int), NewList(String)) {
		t.Error("list<int> should not equal list<string>")
	}
	if Equal(Dyn, Int) {
		t.Error("dyn should not Equal int (structural, not lattice)")
	}
}

func TestIsAssignable(t *testing.T) {
	if !IsAssignable(Int, Dyn) {
		t.Error("int should be assignable to dyn")
	}
	if !IsAssignable(Dyn, Int) {
		t.Error("dyn should be assignable to int (optimistic)")
	}
	if IsAssignable(Int, String) {
		t.Error("int should not be assignable to string")
	}
	if !IsAssignable(NewList(Int), NewList(Dyn)) {
		t.Error("list<int> should be assignable to list<dyn>")
	}
	if IsAssignable(NewList(Int), NewList(String)) {
		t.Error("list<int> should not be assignable to list<string>")
	}
	if !IsAssignable(NewMap(String, Int), NewMap(Dyn, Dyn)) {
		t.Error("map<string,int> should be assignable to map<dyn,dyn>")
	}
}

func TestOverlaps(t *testing.T) {
	if !Overlaps(Dyn, Int) {
		t.Error("dyn overlaps everything")
	}
	if Overlaps(Int, String) {
		t.Error("int/string should not overlap")
	}
	if !Overlaps(NewList(Dyn), NewList(Int)) {
		t.Error("list<dyn> should overlap list<int>")
	}
	if Overlaps(NewList(Int), NewList(String)) {
		t.Error("list<int> should not overlap list<string>")
	}
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []*Type{Int, Uint, Double} {
		if !IsNumeric(typ) {
			t.Errorf("%s should be numeric", typ)
		}
	}
	if IsNumeric(String) {
		t.Error("string should not be numeric")
	}
}

func TestObjectTypeIdentity(t *testing.T) {
	a := NewObject("Person")
	b := NewObject("Person")
	c := NewObject("Car")
	if !Equal(a, b) {
		t.Error("two references to the same object type name should be Equal")
	}
	if Equal(a, c) {
		t.Error("object types with different names should not be Equal")
	}
	if a.String() != "Person" {
		t.Errorf("object type String() = %q, want %q", a.String(), "Person")
	}
	if !IsAssignable(a, Dyn) || !IsAssignable(Dyn, a) {
		t.Error("object type should be assignable to/from dyn")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(&Type{Kind: KindList})
	want := NewList(Dyn)
	if !Equal(got, want) {
		t.Errorf("Normalize(list) = %s, want %s", got, want)
	}
}
