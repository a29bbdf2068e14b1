package runtime

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the tag of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindRecord
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindRecord:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a script value. Primitives are held inline and copied by value;
// arrays, records and functions are shared by reference.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Arr  *Array
	Rec  *Record
	Fn   *Function
}

var (
	Undefined = Value{Kind: KindUndefined}
	Null      = Value{Kind: KindNull}
	True      = Value{Kind: KindBool, Bool: true}
	False     = Value{Kind: KindBool}
	NaN       = Value{Kind: KindNumber, Num: math.NaN()}
)

func NewNumber(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

func NewInt(n int) Value {
	return Value{Kind: KindNumber, Num: float64(n)}
}

func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func NewArrayValue(a *Array) Value {
	return Value{Kind: KindArray, Arr: a}
}

func NewRecordValue(r *Record) Value {
	return Value{Kind: KindRecord, Rec: r}
}

func NewFunctionValue(f *Function) Value {
	return Value{Kind: KindFunction, Fn: f}
}

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool {
	return v.Kind == KindUndefined || v.Kind == KindNull
}

// TypeName is the name used in error messages.
func (v Value) TypeName() string {
	return v.Kind.String()
}

// ToBoolean converts v for use in a condition.
//
// Numbers are false only for 0, -0 and NaN; strings only when empty.
// Arrays, records and functions are always true, even when empty.
func ToBoolean(v Value) bool {
	switch v.Kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindString:
		return len(v.Str) > 0
	default:
		return true
	}
}

// ToString renders v as the language's string conversion does.
func (v Value) ToString() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.Num)
	case KindString:
		return v.Str
	case KindArray:
		parts := make([]string, v.Arr.Len())
		for i := range parts {
			e, ok := v.Arr.At(i)
			if ok && !e.IsNullish() {
				parts[i] = e.ToString()
			}
		}
		return strings.Join(parts, ",")
	case KindRecord:
		if msg, ok := v.Rec.ErrorText(); ok {
			return msg
		}
		return "[object Object]"
	case KindFunction:
		if v.Fn.Name != "" {
			return "function " + v.Fn.Name
		}
		return "function"
	}
	return ""
}

// FormatNumber prints integral values without a fraction.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Inspect renders v for REPL output and diagnostics. Strings are quoted
// and containers are expanded.
func Inspect(v Value) string {
	var b strings.Builder
	inspect(&b, v, 0)
	return b.String()
}

func inspect(b *strings.Builder, v Value, depth int) {
	if depth > 4 {
		b.WriteString("...")
		return
	}
	switch v.Kind {
	case KindString:
		b.WriteString(strconv.Quote(v.Str))
	case KindArray:
		b.WriteByte('[')
		for i := 0; i < v.Arr.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			e, ok := v.Arr.At(i)
			if !ok {
				b.WriteString("<hole>")
				continue
			}
			inspect(b, e, depth+1)
		}
		b.WriteByte(']')
	case KindRecord:
		if msg, ok := v.Rec.ErrorText(); ok {
			b.WriteString(msg)
			return
		}
		b.WriteByte('{')
		for i, k := range v.Rec.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			e, _ := v.Rec.Get(k)
			inspect(b, e, depth+1)
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.ToString())
	}
}
