package builtins

import (
	"github.com/example/gtscript/runtime"
)

var mapMethods = methodSet{
	"len":        mapLen,
	"clone":      mapClone,
	"deleteKey":  mapDeleteKey,
	"deleteKeys": mapDeleteKeys,
	"keys":       mapKeys,
	"values":     mapValues,
	"hasKey":     mapHasKey,
	"isMap":      mapIsMap,
}

var mapOrder = []string{"len", "clone", "deleteKey", "deleteKeys", "keys", "values", "hasKey", "isMap"}

func createMapNamespace() *runtime.Record {
	return namespace(mapMethods, mapOrder)
}

func recordArg(args []runtime.Value) (*runtime.Record, error) {
	v := arg(args, 0)
	if v.Kind != runtime.KindRecord {
		return nil, runtime.Errorf(runtime.TypeError, "expected a map or object, got %s", v.TypeName())
	}
	return v.Rec, nil
}

func mapLen(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewInt(r.Len()), nil
}

// mapClone copies the top level only.
func mapClone(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewRecordValue(r.Clone()), nil
}

func mapDeleteKey(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	r.Delete(runtime.PropertyKey(arg(args, 1)))
	return runtime.Undefined, nil
}

func mapDeleteKeys(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	keys, err := arrayArg(args, 1, "deleteKeys")
	if err != nil {
		return runtime.Undefined, err
	}
	for _, k := range keys.Values() {
		r.Delete(runtime.PropertyKey(k))
	}
	return runtime.Undefined, nil
}

func mapKeys(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	keys := r.Keys()
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.NewString(k)
	}
	return runtime.NewArrayValue(runtime.NewArray(out...)), nil
}

func mapValues(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	keys := r.Keys()
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i], _ = r.Get(k)
	}
	return runtime.NewArrayValue(runtime.NewArray(out...)), nil
}

func mapHasKey(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, err := recordArg(args)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewBool(r.Has(runtime.PropertyKey(arg(args, 1)))), nil
}

func mapIsMap(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.NewBool(arg(args, 0).Kind == runtime.KindRecord), nil
}
