package interpreter

import (
	"math"
	"strconv"

	"github.com/example/gtscript/builtins"
	"github.com/example/gtscript/runtime"
)

// binaryOp applies a non-short-circuit binary operator.
func binaryOp(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		if concatenates(left) || concatenates(right) {
			return runtime.NewString(left.ToString() + right.ToString()), nil
		}
		return runtime.NewNumber(runtime.ToNumber(left) + runtime.ToNumber(right)), nil
	case "-":
		return runtime.NewNumber(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.NewNumber(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.NewNumber(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.NewNumber(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil

	case "==":
		return runtime.NewBool(runtime.LooseEquals(left, right)), nil
	case "!=":
		return runtime.NewBool(!runtime.LooseEquals(left, right)), nil
	case "===":
		return runtime.NewBool(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.NewBool(!runtime.StrictEquals(left, right)), nil
	case "<", ">", "<=", ">=":
		return runtime.NewBool(compare(op, left, right)), nil

	case "&":
		return runtime.NewNumber(float64(runtime.ToInt32(left) & runtime.ToInt32(right))), nil
	case "|":
		return runtime.NewNumber(float64(runtime.ToInt32(left) | runtime.ToInt32(right))), nil
	case "^":
		return runtime.NewNumber(float64(runtime.ToInt32(left) ^ runtime.ToInt32(right))), nil
	case "<<":
		return runtime.NewNumber(float64(runtime.ToInt32(left) << shiftCount(right))), nil
	case ">>":
		return runtime.NewNumber(float64(runtime.ToInt32(left) >> shiftCount(right))), nil
	case ">>>":
		return runtime.NewNumber(float64(uint32(runtime.ToInt32(left)) >> shiftCount(right))), nil

	case "in":
		return inOperator(left, right)
	}
	return runtime.Undefined, runtime.Errorf(runtime.TypeError, "unsupported operator %s", op)
}

// concatenates reports whether + treats the operand as text.
func concatenates(v runtime.Value) bool {
	switch v.Kind {
	case runtime.KindString, runtime.KindArray, runtime.KindRecord, runtime.KindFunction:
		return true
	}
	return false
}

func shiftCount(v runtime.Value) uint32 {
	return uint32(runtime.ToInt32(v)) & 31
}

// compare orders two strings bytewise and everything else numerically.
// Any comparison involving NaN is false.
func compare(op string, left, right runtime.Value) bool {
	if left.Kind == runtime.KindString && right.Kind == runtime.KindString {
		a, b := left.Str, right.Str
		switch op {
		case "<":
			return a < b
		case ">":
			return a > b
		case "<=":
			return a <= b
		}
		return a >= b
	}
	a, b := runtime.ToNumber(left), runtime.ToNumber(right)
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	}
	return a >= b
}

func inOperator(key, container runtime.Value) (runtime.Value, error) {
	switch container.Kind {
	case runtime.KindRecord:
		_, ok := container.Rec.Lookup(runtime.PropertyKey(key))
		return runtime.NewBool(ok), nil
	case runtime.KindArray:
		if i, ok := arrayIndex(key); ok {
			return runtime.NewBool(container.Arr.Has(i)), nil
		}
		return runtime.NewBool(runtime.PropertyKey(key) == "length"), nil
	}
	return runtime.Undefined, runtime.Errorf(runtime.TypeError, "cannot use 'in' to search for '%s' in %s", runtime.PropertyKey(key), container.TypeName())
}

// arrayIndex converts a member key into an element index. Strings must
// be the canonical spelling of a non-negative integer, so "01" and ""
// stay property names.
func arrayIndex(key runtime.Value) (int, bool) {
	switch key.Kind {
	case runtime.KindNumber:
		i, ok := runtime.ToIndex(key)
		return i, ok && i >= 0
	case runtime.KindString:
		i, err := strconv.Atoi(key.Str)
		if err != nil || i < 0 || strconv.Itoa(i) != key.Str {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// getMember reads obj[key]. Missing properties read as undefined.
func getMember(obj, key runtime.Value) (runtime.Value, error) {
	switch obj.Kind {
	case runtime.KindUndefined, runtime.KindNull:
		return runtime.Undefined, runtime.Errorf(runtime.TypeError, "cannot read property '%s' of %s", runtime.PropertyKey(key), obj.TypeName())
	case runtime.KindRecord:
		name := runtime.PropertyKey(key)
		if v, ok := obj.Rec.Lookup(name); ok {
			return v, nil
		}
		if v, ok := builtins.ValueMethod(name); ok {
			return v, nil
		}
		return runtime.Undefined, nil
	case runtime.KindArray:
		if i, ok := arrayIndex(key); ok {
			return obj.Arr.Get(i), nil
		}
	case runtime.KindString:
		if i, ok := arrayIndex(key); ok {
			return builtins.StringIndex(obj.Str, i), nil
		}
	}
	if v, ok := builtins.Property(obj, runtime.PropertyKey(key)); ok {
		return v, nil
	}
	return runtime.Undefined, nil
}

// setMember writes obj[key] = v. Assigning an array's length truncates or
// pads it with holes.
func setMember(obj, key, v runtime.Value) error {
	switch obj.Kind {
	case runtime.KindRecord:
		obj.Rec.Set(runtime.PropertyKey(key), v)
		return nil
	case runtime.KindArray:
		if i, ok := arrayIndex(key); ok {
			if i >= obj.Arr.Len() {
				if err := runtime.CheckLength(i + 1); err != nil {
					return err
				}
			}
			obj.Arr.Set(i, v)
			return nil
		}
		if runtime.PropertyKey(key) == "length" {
			n, ok := runtime.ToIndex(v)
			if !ok || n < 0 {
				return runtime.Errorf(runtime.RangeError, "invalid array length %s", v.ToString())
			}
			if err := runtime.CheckLength(n); err != nil {
				return err
			}
			obj.Arr.SetLength(n)
			return nil
		}
		return runtime.Errorf(runtime.TypeError, "cannot set property '%s' on array", runtime.PropertyKey(key))
	case runtime.KindUndefined, runtime.KindNull:
		return runtime.Errorf(runtime.TypeError, "cannot set property '%s' of %s", runtime.PropertyKey(key), obj.TypeName())
	}
	return runtime.Errorf(runtime.TypeError, "cannot set property '%s' on %s", runtime.PropertyKey(key), obj.TypeName())
}
