package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber converts v for arithmetic. null and undefined read as zero, so an
// unassigned accumulator can be added to directly.
func ToNumber(v Value) float64 {
	switch v.Kind {
	case KindUndefined, KindNull:
		return 0
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindNumber:
		return v.Num
	case KindString:
		return parseNumber(v.Str)
	default:
		return math.NaN()
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// ToInt32 is the conversion used by bitwise operators.
func ToInt32(v Value) int32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(n))))
}

// maxIndex is the largest integer a float64 holds exactly, limited to int.
var maxIndex = math.Min(1<<53-1, float64(math.MaxInt))

// ToIndex converts v to an integer index. ok is false for non-integral or
// non-numeric values. Magnitudes past 2^53-1 clamp to that bound, keeping
// the sign.
func ToIndex(v Value) (int, bool) {
	var n float64
	switch v.Kind {
	case KindNumber:
		n = v.Num
	case KindString:
		n = parseNumber(v.Str)
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, false
	}
	return int(math.Max(-maxIndex, math.Min(n, maxIndex))), true
}

// PropertyKey converts v into a record key.
func PropertyKey(v Value) string {
	return v.ToString()
}

// StrictEquals implements ===. Containers compare by identity.
func StrictEquals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindArray:
		return a.Arr == b.Arr
	case KindRecord:
		return a.Rec == b.Rec
	case KindFunction:
		return a.Fn == b.Fn
	}
	return false
}

// LooseEquals implements ==: null equals undefined, and numbers, strings
// and booleans are compared numerically when their kinds differ.
func LooseEquals(a, b Value) bool {
	if a.Kind == b.Kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	if isScalar(a) && isScalar(b) {
		return ToNumber(a) == ToNumber(b)
	}
	return false
}

func isScalar(v Value) bool {
	return v.Kind == KindNumber || v.Kind == KindString || v.Kind == KindBool
}

// TypeOf is the result of the typeof operator.
func TypeOf(v Value) string {
	switch v.Kind {
	case KindNull, KindArray, KindRecord:
		return "object"
	}
	return v.Kind.String()
}
