package builtins

import (
	"io"

	"github.com/example/gtscript/runtime"
)

// RegisterAll declares the global namespaces in env. fmt.println writes
// to out.
func RegisterAll(env *runtime.Environment, out io.Writer) {
	if out == nil {
		out = io.Discard
	}

	// map: record helpers (len, clone, deleteKey, ...)
	env.Declare("map", runtime.DeclConst, runtime.NewRecordValue(createMapNamespace()))

	// fmt: sprintf and println
	env.Declare("fmt", runtime.DeclConst, runtime.NewRecordValue(createFmtNamespace(out)))
}

// Property resolves name on a receiver that is not a record: array and
// string members, and the toString method every value has.
func Property(recv runtime.Value, name string) (runtime.Value, bool) {
	switch recv.Kind {
	case runtime.KindArray:
		return ArrayProperty(recv.Arr, name)
	case runtime.KindString:
		return StringProperty(recv.Str, name)
	}
	return ValueMethod(name)
}
