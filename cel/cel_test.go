package cel

import (
	"testing"

	"github.com/cwbudde/go-cel/internal/types"
)

func TestEvaluateBasic(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars map[string]any
		want any
	}{
		{"arithmetic", "1 + 2 * 3", nil, int64(7)},
		{"string concat", `"foo" + "bar"`, nil, "foobar"},
		{"exists macro", `user.roles.exists(r, r == "admin")`, map[string]any{
			"user": map[string]any{"roles": []any{"user", "admin"}},
		}, true},
		{"size of string", `size("hello")`, nil, int64(5)},
		{"size counts unicode scalars not bytes", `size("hello 😄")`, nil, int64(7)},
		{"size receiver form", `"hello".size()`, nil, int64(5)},
		{"ternary", "1 < 2 ? \"yes\" : \"no\"", nil, "yes"},
	}

	env, err := NewEnvironment(UnlistedVariablesAreDyn(true))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.Evaluate(tc.src, tc.vars)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tc.src, err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %#v, want %#v", tc.src, got, tc.want)
			}
		})
	}
}

// TestEvaluateDynReceiverCallResolvesConcreteOverload checks a method
// call against an unlisted (statically dyn) variable: the checker must
// resolve x.size() against the concrete list size overload rather
// than rejecting the call before the interpreter ever sees the actual
// (concrete) value x is bound to.
func TestEvaluateDynReceiverCallResolvesConcreteOverload(t *testing.T) {
	env, err := NewEnvironment(UnlistedVariablesAreDyn(true))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	got, err := env.Evaluate(`x.size()`, map[string]any{"x": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(3) {
		t.Errorf("got %#v, want int64(3)", got)
	}
}

func TestParseRejectsUnlistedVariableByDefault(t *testing.T) {
	env, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	if _, err := env.Parse("x + 1"); err == nil {
		t.Fatal("expected a TypeError for an undeclared variable, got nil")
	}
}

func TestRegisterVariableAllowsTypedUsage(t *testing.T) {
	env, err := NewEnvironment(Declarations(Declaration{Name: "x", Type: types.Int}))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	got, err := env.Evaluate("x + 1", map[string]any{"x": int64(41)})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(42) {
		t.Errorf("got %#v, want 42", got)
	}
}

func TestHomogeneousAggregateLiteralsFlag(t *testing.T) {
	strict, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	if _, err := strict.Parse(`[1, "two"]`); err == nil {
		t.Fatal("expected a TypeError for a heterogeneous list literal, got nil")
	}

	permissive, err := NewEnvironment(HomogeneousAggregateLiterals(false))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	if _, err := permissive.Parse(`[1, "two"]`); err != nil {
		t.Fatalf("Parse with HomogeneousAggregateLiterals(false): %v", err)
	}
}

func TestOptionalTypesFlag(t *testing.T) {
	env, err := NewEnvironment(EnableOptionalTypes(), UnlistedVariablesAreDyn(true))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	got, err := env.Evaluate(`obj.?a.b.c.orValue("default")`, map[string]any{
		"obj": map[string]any{"a": map[string]any{}},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "default" {
		t.Errorf("got %#v, want \"default\"", got)
	}
}

func TestSerializeRoundTripsThroughEnvironment(t *testing.T) {
	env, err := NewEnvironment(UnlistedVariablesAreDyn(true))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	p, err := env.Parse("1 + 2 * 3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.Serialize(), "1 + 2 * 3"; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	if got, want := env.Serialize(p), "1 + 2 * 3"; got != want {
		t.Errorf("env.Serialize() = %q, want %q", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	clone := base.Clone()
	if err := clone.RegisterVariable("x", types.Int); err != nil {
		t.Fatalf("RegisterVariable on clone: %v", err)
	}
	if _, err := base.Parse("x + 1"); err == nil {
		t.Fatal("expected the base Environment to remain unaware of the clone's declaration")
	}
	if _, err := clone.Parse("x + 1"); err != nil {
		t.Fatalf("clone should accept its own declared variable: %v", err)
	}
}

func TestRegisterFunctionCustomOverload(t *testing.T) {
	env, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	err = env.RegisterFunction("twice", []*types.Type{types.Int}, types.Int, func(args []any) (any, error) {
		return args[0].(int64) * 2, nil
	})
	if err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	got, err := env.Evaluate("twice(21)", nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(42) {
		t.Errorf("got %#v, want 42", got)
	}
}

func TestFreeFunctions(t *testing.T) {
	got, err := Eval("1 + 1", nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != int64(2) {
		t.Errorf("got %#v, want 2", got)
	}

	p, err := Parse("1 + 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !types.Equal(p.ResultType(), types.Int) {
		t.Errorf("ResultType() = %v, want int", p.ResultType())
	}

	typ, err := Check("1 + 1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !types.Equal(typ, types.Int) {
		t.Errorf("Check() = %v, want int", typ)
	}
}
