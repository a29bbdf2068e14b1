package builtins

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/example/gtscript/runtime"
)

// goValue converts a script value into the Go value handed to fmt verbs.
// Integral numbers become int64 so that %d works.
func goValue(v runtime.Value) any {
	switch v.Kind {
	case runtime.KindUndefined, runtime.KindNull:
		return v.ToString()
	case runtime.KindBool:
		return v.Bool
	case runtime.KindNumber:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1<<53 {
			return int64(v.Num)
		}
		return v.Num
	case runtime.KindString:
		return v.Str
	case runtime.KindRecord:
		if msg, ok := v.Rec.ErrorText(); ok {
			return msg
		}
	}
	return runtime.Inspect(v)
}

func fmtSprintf(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	format, err := stringArg(args, 0, "sprintf")
	if err != nil {
		return runtime.Undefined, err
	}
	rest := make([]any, 0, len(args))
	for _, a := range args[1:] {
		rest = append(rest, goValue(a))
	}
	return runtime.NewString(fmt.Sprintf(format, rest...)), nil
}

func fmtPrintln(w io.Writer) runtime.NativeFunc {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.ToString()
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return runtime.Undefined, nil
	}
}

func createFmtNamespace(w io.Writer) *runtime.Record {
	r := runtime.NewRecord()
	r.Set("sprintf", runtime.NativeValue("sprintf", fmtSprintf))
	r.Set("println", runtime.NativeValue("println", fmtPrintln(w)))
	return r
}
