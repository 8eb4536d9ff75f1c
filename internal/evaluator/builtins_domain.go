package evaluator

import (
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/vesperlang/vesper/internal/diagnostics"
	"gopkg.in/yaml.v3"
)

// RegisterDomainBuiltins binds the builtins this implementation adds
// beyond the core fixed list (§4.8), each wired to one of the kept
// third-party dependencies.
func RegisterDomainBuiltins(env *Environment) {
	env.Def("yaml_encode", &BuiltinFn{Name: "yaml_encode", Fn: builtinYAMLEncode})
	env.Def("yaml_decode", &BuiltinFn{Name: "yaml_decode", Fn: builtinYAMLDecode})
	env.Def("uuid4", &BuiltinFn{Name: "uuid4", Fn: builtinUUID4})
	env.Def("is_tty", &BuiltinFn{Name: "is_tty", Fn: builtinIsTTY})
}

func builtinYAMLEncode(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("yaml_encode", 1, len(args))
	}
	out, err := yaml.Marshal(toNative(args[0]))
	if err != nil {
		d := diagnostics.AtLineCol(0, 0, "yaml_encode: %v", err)
		return nil, &d
	}
	return &String{Value: string(out)}, nil
}

func builtinYAMLDecode(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("yaml_decode", 1, len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		d := diagnostics.AtLineCol(0, 0, "yaml_decode expects a string, got %s", args[0].Kind())
		return nil, &d
	}
	var native interface{}
	if err := yaml.Unmarshal([]byte(s.Value), &native); err != nil {
		d := diagnostics.AtLineCol(0, 0, "yaml_decode: %v", err)
		return nil, &d
	}
	return fromNative(native), nil
}

// toNative converts a Value into the plain Go shape gopkg.in/yaml.v3
// knows how to marshal: named tuples become maps, unnamed tuples
// become slices, patterns become maps keyed by field name.
func toNative(v Value) interface{} {
	switch val := v.(type) {
	case *Null:
		return nil
	case *Int:
		return val.Value
	case *Float:
		return val.Value
	case *Bool:
		return val.Value
	case *String:
		return val.Value
	case *Tuple:
		if val.Names != nil {
			m := make(map[string]interface{}, len(val.Elements))
			for i, el := range val.Elements {
				key := val.Names[i]
				if key == "" {
					key = strconv.Itoa(i)
				}
				m[key] = toNative(el)
			}
			return m
		}
		list := make([]interface{}, len(val.Elements))
		for i, el := range val.Elements {
			list[i] = toNative(el)
		}
		return list
	case *PatternInstance:
		m := make(map[string]interface{}, len(val.Fields))
		for i, name := range val.Def.FieldNames {
			m[name] = toNative(val.Fields[i])
		}
		return m
	default:
		return val.Inspect()
	}
}

// fromNative converts a decoded YAML document back into Values: maps
// become named tuples, sequences become unnamed tuples.
func fromNative(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return NullValue
	case int:
		return &Int{Value: int64(val)}
	case int64:
		return &Int{Value: val}
	case float64:
		return &Float{Value: val}
	case bool:
		return &Bool{Value: val}
	case string:
		return &String{Value: val}
	case []interface{}:
		elems := make([]Value, len(val))
		for i, e := range val {
			elems[i] = fromNative(e)
		}
		return &Tuple{Elements: elems}
	case map[string]interface{}:
		elems := make([]Value, 0, len(val))
		names := make([]string, 0, len(val))
		for k, e := range val {
			names = append(names, k)
			elems = append(elems, fromNative(e))
		}
		return &Tuple{Elements: elems, Names: names}
	default:
		return NullValue
	}
}

func builtinUUID4(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 0 {
		return nil, argErr("uuid4", 0, len(args))
	}
	return &String{Value: uuid.New().String()}, nil
}

func builtinIsTTY(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 0 {
		return nil, argErr("is_tty", 0, len(args))
	}
	return &Bool{Value: isatty.IsTerminal(os.Stdout.Fd())}, nil
}
