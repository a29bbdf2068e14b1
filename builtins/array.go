package builtins

import (
	"strings"

	"github.com/example/gtscript/runtime"
)

var arrayMethods = methodSet{
	"push":        arrayPush,
	"pushRange":   arrayPushRange,
	"insertAt":    arrayInsertAt,
	"removeAt":    arrayRemoveAt,
	"removeRange": arrayRemoveRange,
	"indexOf":     arrayIndexOf,
	"contains":    arrayContains,
	"join":        arrayJoin,
	"slice":       arraySlice,
	"reverse":     arrayReverse,
	"toString":    valueToString,
}

// ArrayMethod resolves a method called on an array receiver.
func ArrayMethod(name string) (runtime.Value, bool) {
	return arrayMethods.lookup(name)
}

// ArrayProperty resolves non-index properties of an array.
func ArrayProperty(a *runtime.Array, name string) (runtime.Value, bool) {
	if name == "length" {
		return runtime.NewInt(a.Len()), true
	}
	return ArrayMethod(name)
}

func thisArray(this runtime.Value, fn string) (*runtime.Array, error) {
	if this.Kind != runtime.KindArray {
		return nil, runtime.Errorf(runtime.TypeError, "%s called on %s", fn, this.TypeName())
	}
	return this.Arr, nil
}

// arrayPush appends every argument and returns undefined.
func arrayPush(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "push")
	if err != nil {
		return runtime.Undefined, err
	}
	a.Push(args...)
	return runtime.Undefined, nil
}

func arrayPushRange(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "pushRange")
	if err != nil {
		return runtime.Undefined, err
	}
	other, err := arrayArg(args, 0, "pushRange")
	if err != nil {
		return runtime.Undefined, err
	}
	a.Append(other)
	return runtime.Undefined, nil
}

func arrayInsertAt(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "insertAt")
	if err != nil {
		return runtime.Undefined, err
	}
	i, err := intArg(args, 0, "insertAt")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Undefined, a.Insert(i, arg(args, 1))
}

func arrayRemoveAt(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "removeAt")
	if err != nil {
		return runtime.Undefined, err
	}
	i, err := intArg(args, 0, "removeAt")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Undefined, a.Remove(i)
}

func arrayRemoveRange(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "removeRange")
	if err != nil {
		return runtime.Undefined, err
	}
	start, err := intArg(args, 0, "removeRange")
	if err != nil {
		return runtime.Undefined, err
	}
	end, err := optIntArg(args, 1, a.Len(), "removeRange")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Undefined, a.RemoveRange(start, end)
}

func indexOfValue(a *runtime.Array, target runtime.Value) int {
	for i := 0; i < a.Len(); i++ {
		if v, ok := a.At(i); ok && runtime.StrictEquals(v, target) {
			return i
		}
	}
	return -1
}

func arrayIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewInt(indexOfValue(a, arg(args, 0))), nil
}

func arrayContains(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "contains")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewBool(indexOfValue(a, arg(args, 0)) >= 0), nil
}

// arrayJoin renders holes, null and undefined as empty strings.
func arrayJoin(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "join")
	if err != nil {
		return runtime.Undefined, err
	}
	sep := ","
	if s := arg(args, 0); s.Kind != runtime.KindUndefined {
		sep = s.ToString()
	}
	parts := make([]string, a.Len())
	for i := range parts {
		if v, ok := a.At(i); ok && !v.IsNullish() {
			parts[i] = v.ToString()
		}
	}
	return runtime.NewString(strings.Join(parts, sep)), nil
}

func arraySlice(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "slice")
	if err != nil {
		return runtime.Undefined, err
	}
	start, err := optIntArg(args, 0, 0, "slice")
	if err != nil {
		return runtime.Undefined, err
	}
	end, err := optIntArg(args, 1, a.Len(), "slice")
	if err != nil {
		return runtime.Undefined, err
	}
	start, end = clampRange(start, end, a.Len())
	return runtime.NewArrayValue(a.Slice(start, end)), nil
}

// arrayReverse reverses in place and returns the receiver.
func arrayReverse(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	a, err := thisArray(this, "reverse")
	if err != nil {
		return runtime.Undefined, err
	}
	a.Reverse()
	return this, nil
}
