package cel

import (
	"sync"

	"github.com/cwbudde/go-cel/internal/types"
)

var (
	defaultEnvOnce sync.Once
	defaultEnv     *Environment
	defaultEnvErr  error
)

// Default returns the package-level Environment the free functions
// delegate to, lazily built with NewEnvironment()'s defaults the first
// time it's needed (spec.md §6: "Free functions delegate to a default
// Environment").
func Default() (*Environment, error) {
	defaultEnvOnce.Do(func() {
		defaultEnv, defaultEnvErr = NewEnvironment()
	})
	return defaultEnv, defaultEnvErr
}

// Eval parses, checks, and evaluates src against vars using the default
// Environment. Most callers that don't need to register custom
// variables/types/functions, or to reuse one Environment across many
// evaluations, can use this directly.
func Eval(src string, vars map[string]any) (any, error) {
	env, err := Default()
	if err != nil {
		return nil, err
	}
	return env.Evaluate(src, vars)
}

// Parse parses and checks src against the default Environment.
func Parse(src string) (*Program, error) {
	env, err := Default()
	if err != nil {
		return nil, err
	}
	return env.Parse(src)
}

// Check parses and checks src against the default Environment, returning
// only its inferred result type.
func Check(src string) (*types.Type, error) {
	env, err := Default()
	if err != nil {
		return nil, err
	}
	return env.Check(src)
}
