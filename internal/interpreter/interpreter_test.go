package interpreter

import (
	"testing"
	"unicode/utf8"

	"github.com/cwbudde/go-cel/internal/parser"
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(r.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.Int, types.Int}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.IntValue) + args[1].(value.IntValue), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.String, types.String}, ResultType: types.String,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.StringValue) + args[1].(value.StringValue), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "_*_", ArgTypes: []*types.Type{types.Int, types.Int}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.IntValue) * args[1].(value.IntValue), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "_<_", ArgTypes: []*types.Type{types.Int, types.Int}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return value.BoolValue(args[0].(value.IntValue) < args[1].(value.IntValue)), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "_==_", ArgTypes: []*types.Type{types.Dyn, types.Dyn}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return value.BoolValue(args[0].Equal(args[1])), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "-_", ArgTypes: []*types.Type{types.Int}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			return -args[0].(value.IntValue), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "!_", ArgTypes: []*types.Type{types.Bool}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return !args[0].(value.BoolValue), nil
		},
	}))
	must(r.RegisterOverload(&registry.Overload{
		Name: "size", ReceiverType: types.String, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			return value.IntValue(utf8.RuneCountInString(string(args[0].(value.StringValue)))), nil
		},
	}))
	return r
}

func mustEval(t *testing.T, reg *registry.Registry, act Activation, src string) value.Value {
	t.Helper()
	expr, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error for %q: %v", src, errs[0])
	}
	interp := New(reg, DefaultOptions, src)
	v, err := interp.Eval(expr, act)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func mustEvalErr(t *testing.T, reg *registry.Registry, act Activation, src string) error {
	t.Helper()
	expr, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse error for %q: %v", src, errs[0])
	}
	interp := New(reg, DefaultOptions, src)
	_, err := interp.Eval(expr, act)
	return err
}

func TestEvalArithmetic(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "1 + 2 * 3")
	if got.(value.IntValue) != 7 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestEvalStringConcat(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "'a' + 'b'")
	if got.(value.StringValue) != "ab" {
		t.Errorf("got %v, want ab", got)
	}
}

func TestEvalUnaryNegate(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "-5")
	if got.(value.IntValue) != -5 {
		t.Errorf("got %v, want -5", got)
	}
}

func TestEvalLogicalAndShortCircuits(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "false && (1/0 == 1)")
	if bool(got.(value.BoolValue)) {
		t.Error("expected false without evaluating the right operand")
	}
}

func TestEvalLogicalOrShortCircuits(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "true || (1/0 == 1)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected true without evaluating the right operand")
	}
}

func TestEvalTernaryEvaluatesOneBranch(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "true ? 1 : 1/0")
	if got.(value.IntValue) != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestEvalIdentifierFromActivation(t *testing.T) {
	reg := testRegistry(t)
	act := MapActivation{"x": value.IntValue(42)}
	got := mustEval(t, reg, act, "x")
	if got.(value.IntValue) != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEvalUnknownVariableErrors(t *testing.T) {
	reg := testRegistry(t)
	err := mustEvalErr(t, reg, MapActivation{}, "x")
	if err == nil {
		t.Fatal("expected error for unknown variable")
	}
}

func TestEvalReservedIdentifierErrors(t *testing.T) {
	reg := testRegistry(t)
	err := mustEvalErr(t, reg, MapActivation{}, "package")
	if err == nil {
		t.Fatal("expected error for reserved identifier")
	}
}

func TestEvalListLiteral(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3][1]")
	if got.(value.IntValue) != 2 {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalMapLiteralAndFieldAccess(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "{'a': 1, 'b': 2}.b")
	if got.(value.IntValue) != 2 {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalMapMissingKeyErrors(t *testing.T) {
	reg := testRegistry(t)
	err := mustEvalErr(t, reg, MapActivation{}, "{'a': 1}.b")
	if err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestEvalObjectFieldAccess(t *testing.T) {
	reg := testRegistry(t)
	if err := reg.RegisterType("Person", map[string]*types.Type{"name": types.String}); err != nil {
		t.Fatal(err)
	}
	p := value.NewObject("Person", map[string]value.Value{"name": value.StringValue("Ada")})
	got := mustEval(t, reg, MapActivation{"p": p}, "p.name")
	if got.(value.StringValue) != "Ada" {
		t.Errorf("got %v, want Ada", got)
	}
}

func TestEvalObjectUndeclaredFieldErrors(t *testing.T) {
	reg := testRegistry(t)
	if err := reg.RegisterType("Person", map[string]*types.Type{"name": types.String}); err != nil {
		t.Fatal(err)
	}
	p := value.NewObject("Person", map[string]value.Value{"name": value.StringValue("Ada")})
	err := mustEvalErr(t, reg, MapActivation{"p": p}, "p.age")
	if err == nil {
		t.Fatal("expected error for undeclared field")
	}
}

func TestEvalHasMacroOnMap(t *testing.T) {
	reg := testRegistry(t)
	act := MapActivation{"m": func() value.Value {
		m := value.NewMap(types.String, types.Int)
		m.Set(value.StringValue("a"), value.IntValue(1))
		return m
	}()}
	got := mustEval(t, reg, act, "has(m.a)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected has(m.a) to be true")
	}
	got = mustEval(t, reg, act, "has(m.z)")
	if bool(got.(value.BoolValue)) {
		t.Error("expected has(m.z) to be false")
	}
}

func TestEvalReceiverMethodCall(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "'hello'.size()")
	if got.(value.IntValue) != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestEvalAllMacro(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3].all(e, e < 10)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected all() true")
	}
	got = mustEval(t, reg, MapActivation{}, "[1, 2, 3].all(e, e < 2)")
	if bool(got.(value.BoolValue)) {
		t.Error("expected all() false")
	}
}

func TestEvalAllMacroEmptyIsTrue(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[].all(e, e < 2)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected all() over empty list to be true")
	}
}

func TestEvalExistsMacro(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3].exists(e, e == 2)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected exists() true")
	}
}

func TestEvalExistsOneMacro(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 2].exists_one(e, e == 2)")
	if bool(got.(value.BoolValue)) {
		t.Error("expected exists_one() false when predicate holds twice")
	}
	got = mustEval(t, reg, MapActivation{}, "[1, 2, 3].exists_one(e, e == 2)")
	if !bool(got.(value.BoolValue)) {
		t.Error("expected exists_one() true when predicate holds once")
	}
}

func TestEvalFilterMacro(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3].filter(e, e < 3)")
	list := got.(*value.ListValue)
	if len(list.Elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(list.Elems))
	}
}

func TestEvalMapMacroTwoArg(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3].map(e, e * 2)")
	list := got.(*value.ListValue)
	if len(list.Elems) != 3 || list.Elems[1].(value.IntValue) != 4 {
		t.Fatalf("got %v, want [2, 4, 6]", list)
	}
}

func TestEvalMapMacroThreeArg(t *testing.T) {
	reg := testRegistry(t)
	got := mustEval(t, reg, MapActivation{}, "[1, 2, 3].map(e, e < 3, e * 2)")
	list := got.(*value.ListValue)
	if len(list.Elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(list.Elems))
	}
}

func TestEvalMacroScopeDoesNotLeak(t *testing.T) {
	reg := testRegistry(t)
	err := mustEvalErr(t, reg, MapActivation{}, "[1].map(e, e) == e")
	if err == nil {
		t.Fatal("expected error: comprehension variable must not leak out of the macro")
	}
}

func TestEvalOptionalViralPropagation(t *testing.T) {
	reg := testRegistry(t)
	act := MapActivation{"obj": func() value.Value {
		inner := value.NewMap(types.String, types.Dyn)
		outer := value.NewMap(types.String, types.Dyn)
		outer.Set(value.StringValue("a"), inner)
		return outer
	}()}
	got := mustEval(t, reg, act, "obj?.a.b.c")
	opt := got.(*value.OptionalValue)
	if opt.HasValue() {
		t.Error("expected optional.none() when an intermediate field is absent")
	}
}

func TestEvalOptionalPresentChain(t *testing.T) {
	reg := testRegistry(t)
	act := MapActivation{"obj": func() value.Value {
		inner := value.NewMap(types.String, types.Dyn)
		inner.Set(value.StringValue("b"), value.IntValue(9))
		outer := value.NewMap(types.String, types.Dyn)
		outer.Set(value.StringValue("a"), inner)
		return outer
	}()}
	got := mustEval(t, reg, act, "obj?.a.b")
	opt := got.(*value.OptionalValue)
	if !opt.HasValue() || opt.Inner.(value.IntValue) != 9 {
		t.Errorf("got %v, want optional.of(9)", opt)
	}
}
