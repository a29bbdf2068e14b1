package builtins

import (
	"github.com/example/gtscript/runtime"
)

// arg returns args[i], or undefined when the caller passed fewer.
func arg(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}

// intArg converts args[i] to an integer index.
func intArg(args []runtime.Value, i int, fn string) (int, error) {
	v := arg(args, i)
	n, ok := runtime.ToIndex(v)
	if !ok || v.Kind != runtime.KindNumber {
		return 0, runtime.Errorf(runtime.TypeError, "%s: expected an integer, got %s", fn, v.TypeName())
	}
	return n, nil
}

// optIntArg is intArg with a default for a missing or undefined argument.
func optIntArg(args []runtime.Value, i int, def int, fn string) (int, error) {
	if arg(args, i).Kind == runtime.KindUndefined {
		return def, nil
	}
	return intArg(args, i, fn)
}

func stringArg(args []runtime.Value, i int, fn string) (string, error) {
	v := arg(args, i)
	if v.Kind != runtime.KindString {
		return "", runtime.Errorf(runtime.TypeError, "%s: expected a string, got %s", fn, v.TypeName())
	}
	return v.Str, nil
}

func arrayArg(args []runtime.Value, i int, fn string) (*runtime.Array, error) {
	v := arg(args, i)
	if v.Kind != runtime.KindArray {
		return nil, runtime.Errorf(runtime.TypeError, "%s: expected an array, got %s", fn, v.TypeName())
	}
	return v.Arr, nil
}

// clampRange resolves slice bounds against length n. Negative values
// count from the end.
func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if end < start {
		end = start
	}
	return start, end
}

// methodSet binds natives to the names a script uses after a dot.
type methodSet map[string]runtime.NativeFunc

func (m methodSet) lookup(name string) (runtime.Value, bool) {
	fn, ok := m[name]
	if !ok {
		return runtime.Undefined, false
	}
	return runtime.NativeValue(name, fn), true
}

// namespace builds a record of natives, such as the global map object.
func namespace(m methodSet, order []string) *runtime.Record {
	r := runtime.NewRecord()
	for _, name := range order {
		r.Set(name, runtime.NativeValue(name, m[name]))
	}
	return r
}
