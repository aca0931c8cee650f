package cel

import (
	"strings"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/checker"
	"github.com/cwbudde/go-cel/internal/interpreter"
	"github.com/cwbudde/go-cel/internal/parser"
	"github.com/cwbudde/go-cel/internal/serializer"
	"github.com/cwbudde/go-cel/internal/types"
)

// Program is the parsed-and-checked evaluable artifact Environment.Parse
// returns, matching spec.md §6's `env.parse(source) → {evaluate(context?),
// ast}`. A Program is a pure function of the Environment snapshot it was
// parsed against (spec.md §4's Lifecycle note) and may be evaluated any
// number of times, concurrently, against different contexts.
type Program struct {
	env        *Environment
	source     string
	ast        ast.Expression
	resultType *types.Type
}

// AST returns the checked expression tree.
func (p *Program) AST() ast.Expression { return p.ast }

// ResultType returns the statically inferred result type.
func (p *Program) ResultType() *types.Type { return p.resultType }

// Source returns the original CEL source this Program was parsed from.
func (p *Program) Source() string { return p.source }

// Evaluate runs the program against vars (a nil map means no free
// variables are bound). Matching spec.md §6, this is pure and may be
// called repeatedly and concurrently provided the owning Environment is
// not mutated concurrently.
func (p *Program) Evaluate(vars map[string]any) (any, error) {
	interp := interpreter.New(p.env.registryForEval(), p.env.opts.interpreterOptions(), p.source)
	act := nativeActivation{vars: vars}
	v, err := interp.Eval(p.ast, act)
	if err != nil {
		return nil, err
	}
	return fromValue(v)
}

// Serialize renders the Program's AST back into canonical CEL source.
func (p *Program) Serialize() string {
	return serializer.Serialize(p.ast)
}

func serializeProgram(p *Program) string {
	return p.Serialize()
}

// Issues accumulates the parse and/or check errors from a failed
// Environment.Parse call, matching spec.md §6's `{valid:false, error}`
// shape at the facade boundary. It implements error, joining every
// parse error (the parser does not stop at the first) followed by the
// single checker error (the checker surfaces at most one, per §7).
type Issues struct {
	ParseErrors []*parser.ParseError
	CheckError  *checker.TypeError
}

func (i *Issues) Error() string {
	var sb strings.Builder
	for idx, e := range i.ParseErrors {
		if idx > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Error())
	}
	if i.CheckError != nil {
		if len(i.ParseErrors) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(i.CheckError.Error())
	}
	return sb.String()
}

