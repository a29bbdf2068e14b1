package builtins

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/example/gtscript/runtime"
)

// Strings are indexed by byte. Only the rune* methods count runes.
var stringMethods = methodSet{
	"runeAt":        stringRuneAt,
	"runeSubstring": stringRuneSubstring,
	"substring":     stringSubstring,
	"indexOf":       stringIndexOf,
	"lastIndexOf":   stringLastIndexOf,
	"contains":      stringContains,
	"hasPrefix":     stringHasPrefix,
	"hasSuffix":     stringHasSuffix,
	"equalFold":     stringEqualFold,
	"toLower":       stringToLower,
	"toUpper":       stringToUpper,
	"trim":          stringTrim,
	"split":         stringSplit,
	"replace":       stringReplace,
	"toString":      valueToString,
}

// StringMethod resolves a method called on a string receiver.
func StringMethod(name string) (runtime.Value, bool) {
	return stringMethods.lookup(name)
}

// StringProperty resolves non-index properties of a string.
func StringProperty(s string, name string) (runtime.Value, bool) {
	switch name {
	case "length":
		return runtime.NewInt(len(s)), true
	case "runeCount":
		return runtime.NewInt(utf8.RuneCountInString(s)), true
	}
	return StringMethod(name)
}

// StringIndex reads the byte at i as a number. Out of range reads
// undefined.
func StringIndex(s string, i int) runtime.Value {
	if i < 0 || i >= len(s) {
		return runtime.Undefined
	}
	return runtime.NewInt(int(s[i]))
}

func thisString(this runtime.Value, fn string) (string, error) {
	if this.Kind != runtime.KindString {
		return "", runtime.Errorf(runtime.TypeError, "%s called on %s", fn, this.TypeName())
	}
	return this.Str, nil
}

func stringRuneAt(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "runeAt")
	if err != nil {
		return runtime.Undefined, err
	}
	i, err := intArg(args, 0, "runeAt")
	if err != nil {
		return runtime.Undefined, err
	}
	runes := []rune(s)
	if i < 0 || i >= len(runes) {
		return runtime.Undefined, runtime.Errorf(runtime.IndexError, "rune index %d out of range [0, %d)", i, len(runes))
	}
	return runtime.NewString(string(runes[i])), nil
}

// stringRuneSubstring slices by rune position.
func stringRuneSubstring(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "runeSubstring")
	if err != nil {
		return runtime.Undefined, err
	}
	runes := []rune(s)
	start, err := intArg(args, 0, "runeSubstring")
	if err != nil {
		return runtime.Undefined, err
	}
	end, err := optIntArg(args, 1, len(runes), "runeSubstring")
	if err != nil {
		return runtime.Undefined, err
	}
	if start < 0 || end > len(runes) || start > end {
		return runtime.Undefined, runtime.Errorf(runtime.IndexError, "range [%d, %d) out of bounds for %d runes", start, end, len(runes))
	}
	return runtime.NewString(string(runes[start:end])), nil
}

// stringSubstring slices by byte offset.
func stringSubstring(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "substring")
	if err != nil {
		return runtime.Undefined, err
	}
	start, err := intArg(args, 0, "substring")
	if err != nil {
		return runtime.Undefined, err
	}
	end, err := optIntArg(args, 1, len(s), "substring")
	if err != nil {
		return runtime.Undefined, err
	}
	if start < 0 || end > len(s) || start > end {
		return runtime.Undefined, runtime.Errorf(runtime.IndexError, "range [%d, %d) out of bounds for length %d", start, end, len(s))
	}
	return runtime.NewString(s[start:end]), nil
}

func stringIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	sub, err := stringArg(args, 0, "indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	from, err := optIntArg(args, 1, 0, "indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return runtime.NewInt(-1), nil
	}
	i := strings.Index(s[from:], sub)
	if i < 0 {
		return runtime.NewInt(-1), nil
	}
	return runtime.NewInt(from + i), nil
}

func stringLastIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "lastIndexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	sub, err := stringArg(args, 0, "lastIndexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	// start limits the search to s[start:]; the offset stays absolute.
	start, err := optIntArg(args, 1, 0, "lastIndexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	if start < 0 {
		start = 0
	}
	if start > len(s) {
		return runtime.NewInt(-1), nil
	}
	i := strings.LastIndex(s[start:], sub)
	if i < 0 {
		return runtime.NewInt(-1), nil
	}
	return runtime.NewInt(start + i), nil
}

// stringPredicate adapts a two-string Go predicate such as strings.HasPrefix.
func stringPredicate(name string, pred func(s, arg string) bool) runtime.NativeFunc {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := thisString(this, name)
		if err != nil {
			return runtime.Undefined, err
		}
		other, err := stringArg(args, 0, name)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.NewBool(pred(s, other)), nil
	}
}

var (
	stringContains  = stringPredicate("contains", strings.Contains)
	stringHasPrefix = stringPredicate("hasPrefix", strings.HasPrefix)
	stringHasSuffix = stringPredicate("hasSuffix", strings.HasSuffix)
	stringEqualFold = stringPredicate("equalFold", equalFold)
)

// equalFold compares under full Unicode case folding.
func equalFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// stringMapper adapts a string transform that takes no arguments.
func stringMapper(name string, f func(string) string) runtime.NativeFunc {
	return func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		s, err := thisString(this, name)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.NewString(f(s)), nil
	}
}

var (
	stringToLower = stringMapper("toLower", func(s string) string { return cases.Lower(language.Und).String(s) })
	stringToUpper = stringMapper("toUpper", func(s string) string { return cases.Upper(language.Und).String(s) })
	stringTrim    = stringMapper("trim", strings.TrimSpace)
)

func stringSplit(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "split")
	if err != nil {
		return runtime.Undefined, err
	}
	sep, err := stringArg(args, 0, "split")
	if err != nil {
		return runtime.Undefined, err
	}
	parts := strings.Split(s, sep)
	out := make([]runtime.Value, len(parts))
	for i, p := range parts {
		out[i] = runtime.NewString(p)
	}
	return runtime.NewArrayValue(runtime.NewArray(out...)), nil
}

// stringReplace replaces the first n occurrences, all of them when n is
// omitted.
func stringReplace(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "replace")
	if err != nil {
		return runtime.Undefined, err
	}
	old, err := stringArg(args, 0, "replace")
	if err != nil {
		return runtime.Undefined, err
	}
	repl, err := stringArg(args, 1, "replace")
	if err != nil {
		return runtime.Undefined, err
	}
	n, err := optIntArg(args, 2, -1, "replace")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.NewString(strings.Replace(s, old, repl, n)), nil
}

// valueToString is the toString method shared by every receiver kind.
func valueToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	return runtime.NewString(this.ToString()), nil
}

// ValueMethod resolves methods available on any value.
func ValueMethod(name string) (runtime.Value, bool) {
	if name == "toString" {
		return runtime.NativeValue(name, valueToString), true
	}
	return runtime.Undefined, false
}
