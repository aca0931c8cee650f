package stdlib

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerBytes wires the receiver-style `bytes` methods of spec.md
// §4.G: at, hex, base64, string (size is registered polymorphically in
// size.go alongside string/list/map).
func registerBytes(reg *registry.Registry) error {
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "at", ReceiverType: types.Bytes, ArgTypes: []*types.Type{types.Int}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			b := args[0].(value.BytesValue)
			idx := int(args[1].(value.IntValue))
			if idx < 0 || idx >= len(b) {
				return nil, fmt.Errorf("index out of range: %d", idx)
			}
			return value.IntValue(b[idx]), nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "hex", ReceiverType: types.Bytes, ResultType: types.String,
		Func: func(args []value.Value) (value.Value, error) {
			return value.StringValue(hex.EncodeToString(args[0].(value.BytesValue))), nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "base64", ReceiverType: types.Bytes, ResultType: types.String,
		Func: func(args []value.Value) (value.Value, error) {
			return value.StringValue(base64.StdEncoding.EncodeToString(args[0].(value.BytesValue))), nil
		},
	}); err != nil {
		return err
	}

	return reg.RegisterOverload(&registry.Overload{
		Name: "string", ReceiverType: types.Bytes, ResultType: types.String,
		Func: func(args []value.Value) (value.Value, error) {
			return value.StringValue(string(args[0].(value.BytesValue))), nil
		},
	})
}
