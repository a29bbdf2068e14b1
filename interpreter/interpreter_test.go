package interpreter

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/example/gtscript/parser"
	"github.com/example/gtscript/runtime"
)

func evalExpect(t *testing.T, source string) runtime.Value {
	t.Helper()
	interp := New()
	val, err := interp.Eval(source)
	if err != nil {
		t.Fatalf("Eval error for %q: %v", source, err)
	}
	return val
}

// evalThrown returns the value thrown out of source.
func evalThrown(t *testing.T, source string) runtime.Value {
	t.Helper()
	interp := New()
	_, err := interp.Eval(source)
	var te *ThrowError
	if !errors.As(err, &te) {
		t.Fatalf("expected a throw for %q, got err=%v", source, err)
	}
	return te.Value
}

func expectThrowKind(t *testing.T, source string, kind runtime.ErrorKind) {
	t.Helper()
	v := evalThrown(t, source)
	if v.Kind != runtime.KindRecord {
		t.Fatalf("expected an error record for %q, got %s", source, runtime.Inspect(v))
	}
	name, _ := v.Rec.Get("name")
	if name.Str != string(kind) {
		t.Fatalf("expected %s for %q, got %s", kind, source, runtime.Inspect(v))
	}
}

func expectNumber(t *testing.T, source string, expected float64) {
	t.Helper()
	val := evalExpect(t, source)
	if val.Kind != runtime.KindNumber {
		t.Fatalf("expected number for %q, got %s", source, runtime.Inspect(val))
	}
	if math.IsNaN(expected) {
		if !math.IsNaN(val.Num) {
			t.Fatalf("expected NaN for %q, got %v", source, val.Num)
		}
		return
	}
	if val.Num != expected {
		t.Fatalf("expected %v for %q, got %v", expected, source, val.Num)
	}
}

func expectString(t *testing.T, source string, expected string) {
	t.Helper()
	val := evalExpect(t, source)
	if val.Kind != runtime.KindString {
		t.Fatalf("expected string for %q, got %s", source, runtime.Inspect(val))
	}
	if val.Str != expected {
		t.Fatalf("expected %q for %q, got %q", expected, source, val.Str)
	}
}

func expectBool(t *testing.T, source string, expected bool) {
	t.Helper()
	val := evalExpect(t, source)
	if val.Kind != runtime.KindBool {
		t.Fatalf("expected boolean for %q, got %s", source, runtime.Inspect(val))
	}
	if val.Bool != expected {
		t.Fatalf("expected %v for %q, got %v", expected, source, val.Bool)
	}
}

func expectUndefined(t *testing.T, source string) {
	t.Helper()
	val := evalExpect(t, source)
	if val.Kind != runtime.KindUndefined {
		t.Fatalf("expected undefined for %q, got %s", source, runtime.Inspect(val))
	}
}

func TestLiterals(t *testing.T) {
	expectNumber(t, "1_000", 1000)
	expectNumber(t, "0x1F", 31)
	expectNumber(t, "0b101", 5)
	expectString(t, `"a\tb"`, "a\tb")
	expectBool(t, "true", true)
	expectUndefined(t, "undefined")
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"7 % 3", 1},
		{"-7 % 3", -1},
		{"10 / 4", 2.5},
		{"let x\nx + 1", 1},
		{"null * 3 + 2", 2},
		{"5 & 3", 1},
		{"5 | 3", 7},
		{"5 ^ 3", 6},
		{"~5", -6},
		{"1 << 4", 16},
		{"-16 >> 2", -4},
		{"-1 >>> 28", 15},
		{"+\"42\"", 42},
	}
	for _, tt := range tests {
		expectNumber(t, tt.src, tt.want)
	}
	expectNumber(t, "0 / 0", math.NaN())
}

func TestStringConcat(t *testing.T) {
	expectString(t, `"a" + 1`, "a1")
	expectString(t, `1 + "a"`, "1a")
	expectString(t, `"n=" + null`, "n=null")
	expectString(t, `"x" + undefined`, "xundefined")
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 1", false},
		{`"a" < "b"`, true},
		{`1 == "1"`, true},
		{`1 === "1"`, false},
		{"null == undefined", true},
		{"null === undefined", false},
		{"NaN == NaN", false},
		{"null == 0", false},
		{`"b" in {b: 1}`, true},
		{"1 in [5, 6]", true},
		{"2 in [5, 6]", false},
	}
	for _, tt := range tests {
		expectBool(t, tt.src, tt.want)
	}
}

func TestLogical(t *testing.T) {
	expectString(t, `0 || "x"`, "x")
	expectNumber(t, "1 && 2", 2)
	expectNumber(t, "null ?? 5", 5)
	expectNumber(t, "0 ?? 5", 0)
	// right side is not evaluated
	expectNumber(t, "let n = 1\nfalse && n++\nn", 1)
}

func TestTruthiness(t *testing.T) {
	expectNumber(t, `
let n = 0
for (const v of [0, -0, NaN, "", null, undefined, false]) {
    if (v) n++
}
n`, 0)
	expectNumber(t, `
let n = 0
for (const v of [1, "0", " ", [], {}, true, -1]) {
    if (v) n++
}
n`, 7)
}

func TestConstAssignment(t *testing.T) {
	expectThrowKind(t, "const a = 1\na = 2", runtime.TypeError)
}

func TestRedeclaration(t *testing.T) {
	expectThrowKind(t, "let a = 1\nlet a = 2", runtime.RedeclarationError)
	expectThrowKind(t, "var a = 1\nlet a = 2", runtime.RedeclarationError)
	// shadowing in a nested block is fine
	expectNumber(t, "let a = 1\n{ let a = 2 }\na", 1)
	expectNumber(t, "var a = 1\nvar a = 2\na", 2)
}

func TestReferenceErrors(t *testing.T) {
	expectThrowKind(t, "undeclared + 1", runtime.ReferenceError)
	expectThrowKind(t, "undeclared = 1", runtime.ReferenceError)
}

func TestVarHoisting(t *testing.T) {
	expectUndefined(t, `
function f() {
    const r = x
    var x = 5
    return r
}
f()`)
	expectNumber(t, `
function g() {
    {
        var y = 2
    }
    return y
}
g()`, 2)
	expectNumber(t, "const r = later()\nfunction later() { return 3 }\nr", 3)
}

func TestBlockScoping(t *testing.T) {
	expectNumber(t, `
let a = 3
{
    let a = 7
    a++
    {
        let a = 99
    }
}
a`, 3)
}

func TestClosuresShareFrame(t *testing.T) {
	expectNumber(t, `
function counter() {
    let n = 0
    return { inc: () => ++n, get: () => n }
}
const c = counter()
c.inc()
c.inc()
c.get()`, 2)
}

func TestClosureCapturesDefinitionFrame(t *testing.T) {
	expectString(t, `
let x = "outer"
function show() { return x }
function caller() {
    let x = "inner"
    return show()
}
caller()`, "outer")
}

func TestLabeledLoops(t *testing.T) {
	expectString(t, `
let out = []
outer: for (let i = 0; i < 3; i++) {
    for (let j = 0; j < 3; j++) {
        if (j == 1) continue outer
        if (i == 2) break outer
        out.push(i * 10 + j)
    }
}
out.join(",")`, "0,10")
}

func TestLabeledBlock(t *testing.T) {
	expectNumber(t, `
let r = 0
blk: {
    r = 1
    break blk
    r = 2
}
r`, 1)
}

func TestSwitchPassesLabeledBreak(t *testing.T) {
	expectNumber(t, `
let n = 0
loop: while (true) {
    switch (n) {
    case 0:
        n++
        break loop
    }
}
n`, 1)
}

func TestSwitchFallthrough(t *testing.T) {
	expectString(t, `
function f(x) {
    let s = ""
    switch (x) {
    case 1:
        s += "a"
    case 2:
        s += "b"
        break
    default:
        s += "d"
    }
    return s
}
f(1) + f(2) + f(3)`, "abbd")
	expectNumber(t, `
let r = 0
switch (5) {
case 1:
    r = 1
default:
    r = 2
case 3:
    r = 3
}
r`, 3)
	// strict equality
	expectString(t, `
let r = "none"
switch ("1") {
case 1:
    r = "number"
}
r`, "none")
}

func TestFinallyOverrides(t *testing.T) {
	expectString(t, `
function f() {
    try {
        return "try"
    } finally {
        return "finally"
    }
}
f()`, "finally")
	expectString(t, `
function g() {
    try {
        throw "boom"
    } finally {
        return "recovered"
    }
}
g()`, "recovered")
	expectString(t, `
while (true) {
    try {
        throw "x"
    } finally {
        break
    }
}
"done"`, "done")
}

func TestTryCatch(t *testing.T) {
	expectString(t, `
let log = ""
try {
    throw "x"
} catch (e) {
    log += "c:" + e
} finally {
    log += ";f"
}
log`, "c:x;f")
	// finally runs but does not replace a normal return
	expectString(t, `
let log = ""
function f() {
    try {
        return "r"
    } finally {
        log = "f"
    }
}
f() + log`, "rf")
	expectString(t, `
let msg = ""
try {
    missing()
} catch (e) {
    msg = e.toString()
}
msg`, "ReferenceError: missing is not defined")
	expectString(t, `
let name
try {
    const c = 1
    c = 2
} catch (e) {
    name = e.name
}
name`, "TypeError")
}

func TestUncaughtThrow(t *testing.T) {
	v := evalThrown(t, `throw "bad"`)
	if v.Str != "bad" {
		t.Fatalf("thrown value = %s", runtime.Inspect(v))
	}
}

func TestHoles(t *testing.T) {
	expectString(t, `
const a = [0, 'a', , null, undefined]
let k = 0
for (const i in a) k++
let v = 0
for (const x of a) v++
k + ":" + v + ":" + a.length`, "4:5:5")
	expectUndefined(t, "const a = [1, , 3]\na[1]")
}

func TestForOfIsLive(t *testing.T) {
	expectNumber(t, `
const a = [1, 2, 3]
let sum = 0
for (const x of a) {
    if (x == 1) a.push(4)
    sum += x
}
sum`, 10)
	expectString(t, `
const b = [1, 2, 3]
let seen = ""
for (const x of b) {
    seen += x
    if (x == 1) b.removeAt(0)
}
seen`, "13")
}

func TestForInSnapshotsKeys(t *testing.T) {
	expectNumber(t, `
const r = {a: 1}
let n = 0
for (const k in r) {
    r["b" + n] = 1
    n++
}
n`, 1)
	expectString(t, `
let keys = ""
for (const k in {x: 1, y: 2, z: 3}) keys += k
keys`, "xyz")
}

func TestNullishLoopSources(t *testing.T) {
	expectNumber(t, `
let n = 0
for (const x of null) n++
for (const k in undefined) n++
n`, 0)
	expectThrowKind(t, "for (const x of {a: 1}) {}", runtime.TypeError)
}

func TestLoopBindings(t *testing.T) {
	// for-in and for-of bind a fresh let per iteration
	expectString(t, `
const fns = []
for (const k in [10, 20]) fns.push(() => k)
fns[0]() + fns[1]()`, "01")
	// the for head is a single frame shared by all iterations
	expectNumber(t, `
const fs = []
for (let i = 0; i < 2; i++) fs.push(() => i)
fs[0]() + fs[1]()`, 4)
	// var targets assign the hoisted slot
	expectNumber(t, `
function f() {
    for (var x of [1, 2, 3]) {}
    return x
}
f()`, 3)
}

func TestWhileAndDoWhile(t *testing.T) {
	expectNumber(t, "let i = 0\nwhile (i < 5) i++\ni", 5)
	expectNumber(t, "let i = 10\ndo { i++ } while (i < 5)\ni", 11)
	expectNumber(t, `
let i = 0
let n = 0
do {
    i++
    if (i % 2 == 0) continue
    n++
} while (i < 6)
n`, 3)
}

func TestVariadic(t *testing.T) {
	expectString(t, `
function f(a, ...rest) { return a + ":" + rest.length }
f(1) + "," + f(1, 2, 3) + "," + f(...[1, 2], 3)`, "1:0,1:2,1:2")
	expectNumber(t, `
function sum(...xs) {
    let t = 0
    for (const x of xs) t += x
    return t
}
sum(1, ...[2, 3], 4, ...[5])`, 15)
	expectNumber(t, "function g(a, b = a * 2) { return b }\ng(3)", 6)
	expectUndefined(t, "function h(a, b) { return b }\nh(1)")
}

func TestReturnValues(t *testing.T) {
	expectUndefined(t, "function f() { 1 }\nf()")
	expectUndefined(t, "function f() { return }\nf()")
}

func TestBreakEscapingFunction(t *testing.T) {
	expectThrowKind(t, "function f() { break }\nf()", runtime.TypeError)
	expectThrowKind(t, `
outer: for (;;) {
    const f = () => { continue outer }
    f()
}`, runtime.TypeError)
}

func TestTopLevelReturn(t *testing.T) {
	program, err := parser.Parse("let x = 40\nreturn x + 2\nx = 0")
	if err != nil {
		t.Fatal(err)
	}
	interp := New()
	o := interp.Run(program)
	if o.Kind != Return || o.Value.Num != 42 {
		t.Fatalf("outcome = %v %s", o.Kind, runtime.Inspect(o.Value))
	}
	if v, _ := interp.Lookup("x"); v.Num != 40 {
		t.Fatalf("statement after return ran: x = %s", runtime.Inspect(v))
	}
}

func TestCallDepth(t *testing.T) {
	interp := New(WithMaxCallDepth(50))
	_, err := interp.Eval("function r() { return r() }\nr()")
	var te *ThrowError
	if !errors.As(err, &te) {
		t.Fatalf("expected throw, got %v", err)
	}
	if text, _ := te.Value.Rec.ErrorText(); text != "RangeError: maximum call stack size exceeded" {
		t.Fatalf("thrown %q", text)
	}
	// the interpreter is usable afterwards
	expectNumberIn(t, interp, "function ok() { return 1 }\nok()", 1)
}

func expectNumberIn(t *testing.T, interp *Interpreter, source string, expected float64) {
	t.Helper()
	v, err := interp.Eval(source)
	if err != nil {
		t.Fatalf("Eval error for %q: %v", source, err)
	}
	if v.Num != expected {
		t.Fatalf("expected %v for %q, got %s", expected, source, runtime.Inspect(v))
	}
}

func TestClasses(t *testing.T) {
	expectString(t, `
class Person {
    name: string
    age: number

    constructor(name: string, age: number) {
        this.name = name
        this.age = age
    }

    getName() {
        return this.name
    }
}
const p = new Person("John", 33)
p.getName() + p.age`, "John33")
	expectNumber(t, `
class C {
    n = 1
    value() { return this.n }
}
const c = new C()
c.n = 5
c.value() + new C().value()`, 6)
	expectThrowKind(t, "class K {}\nK()", runtime.TypeError)
	expectThrowKind(t, "const f = () => 1\nnew f()", runtime.TypeError)
}

func TestNewOnPlainFunction(t *testing.T) {
	expectNumber(t, `
function Point(x) { this.x = x }
new Point(7).x`, 7)
}

func TestThisBinding(t *testing.T) {
	expectNumber(t, `
const o = { n: 2, read() { return this.n } }
o.read()`, 2)
	expectNumber(t, `
const o = {
    n: 3,
    f() {
        const g = () => this.n
        return g()
    }
}
o.f()`, 3)
	expectUndefined(t, "this")
}

func TestMembers(t *testing.T) {
	expectNumber(t, `"héllo".length`, 6)
	expectNumber(t, `"héllo".runeCount`, 5)
	expectNumber(t, `"abc"[1]`, 98)
	expectUndefined(t, `"abc"[5]`)
	expectNumber(t, "const a = [1, 2, 3]\na.length = 1\na.length", 1)
	expectUndefined(t, "const a = [1]\na[-1]")
	expectNumber(t, `const r = {}
r[1] = 5
r["1"]`, 5)
	expectUndefined(t, "const o = {}\no.missing")
	expectThrowKind(t, "const n = null\nn.x", runtime.TypeError)
	expectThrowKind(t, `"abc".nope()`, runtime.TypeError)
}

func TestTypeof(t *testing.T) {
	expectString(t, "typeof undeclared", "undefined")
	expectString(t, "typeof null", "object")
	expectString(t, "typeof [1]", "object")
	expectString(t, "typeof (() => 1)", "function")
	expectString(t, `typeof ""`, "string")
}

func TestCompoundAssignment(t *testing.T) {
	expectString(t, `let s = "a"
s += "b"
s`, "ab")
	expectNumber(t, "let x = 5\nx -= 2\nx *= 3\nx", 9)
	expectNumber(t, "let b = 6\nb &= 3\nb <<= 2\nb", 8)
	expectNumber(t, "const o = {n: 1}\no.n += 2\no.n", 3)
	expectNumber(t, "const arr = [1]\narr[0]++\narr[0]", 2)
	expectNumber(t, "let i = 1\nconst j = i++\nj * 10 + i", 12)
	expectNumber(t, "let i = 1\nconst j = --i\nj * 10 + i", 0)
}

func TestBuiltinsReachable(t *testing.T) {
	expectNumber(t, "const m = {a: 1, b: 2}\nmap.deleteKey(m, 'a')\nmap.len(m)", 1)
	expectString(t, `fmt.sprintf("%d-%s", 3, "x")`, "3-x")
	expectThrowKind(t, "const a = [1]\na.insertAt(5, 0)", runtime.IndexError)
	expectThrowKind(t, "map = 1", runtime.TypeError)
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	interp := New(WithOutput(&buf))
	if _, err := interp.Eval(`fmt.println("a", 1, [2])`); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a 1 2\n" {
		t.Fatalf("println wrote %q", got)
	}
}

func TestImports(t *testing.T) {
	resolver := ResolverFunc(func(name string) (*runtime.Record, error) {
		if name != "m" {
			return nil, runtime.Errorf(runtime.ReferenceError, "module %q not found", name)
		}
		r := runtime.NewRecord()
		r.Set("x", runtime.NewInt(1))
		return r, nil
	})
	interp := New(WithResolver(resolver))
	expectNumberIn(t, interp, "import * as m from \"m\"\nm.x + 1", 2)

	_, err := New(WithResolver(resolver)).Eval(`import * as q from "q"`)
	var te *ThrowError
	if !errors.As(err, &te) {
		t.Fatalf("expected throw for unknown module, got %v", err)
	}
	expectThrowKind(t, `import * as m from "m"`, runtime.ReferenceError)
}

func TestExports(t *testing.T) {
	program, err := parser.Parse(`
export function f() { return 1 }
export const c = 2
const hidden = 3
export class K {}`)
	if err != nil {
		t.Fatal(err)
	}
	interp := New()
	if o := interp.Run(program); o.Abrupt() {
		t.Fatalf("run: %v", o.Kind)
	}
	got := interp.Exports(program).Keys()
	want := []string{"f", "c", "K"}
	if len(got) != len(want) {
		t.Fatalf("exports = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("exports = %v, want %v", got, want)
		}
	}
}

func TestCall(t *testing.T) {
	interp := New()
	if _, err := interp.Eval(`
function add(a, b) { return a + b }
function fail() { throw "nope" }`); err != nil {
		t.Fatal(err)
	}
	add, err := interp.Lookup("add")
	if err != nil {
		t.Fatal(err)
	}
	v, err := interp.Call(add, runtime.Undefined, runtime.NewInt(1), runtime.NewInt(2))
	if err != nil || v.Num != 3 {
		t.Fatalf("add(1, 2) = %s, %v", runtime.Inspect(v), err)
	}

	fail, _ := interp.Lookup("fail")
	_, err = interp.Call(fail, runtime.Undefined)
	var te *ThrowError
	if !errors.As(err, &te) || te.Value.Str != "nope" {
		t.Fatalf("expected thrown \"nope\", got %v", err)
	}
	if _, err := interp.Call(runtime.NewInt(1), runtime.Undefined); err == nil {
		t.Fatal("calling a number should fail")
	}
}

func TestPersistentSession(t *testing.T) {
	interp := New()
	if _, err := interp.Eval("let total = 1"); err != nil {
		t.Fatal(err)
	}
	expectNumberIn(t, interp, "total += 4\ntotal", 5)
	if _, err := interp.Eval("let total = 2"); err == nil {
		t.Fatal("redeclaring across evaluations should fail")
	}
}

func TestArrayGrowthLimit(t *testing.T) {
	expectString(t, `
var n = ""
try { var a = []; a.length = 1e15 } catch (e) { n = e.name }
n`, "RangeError")
	expectString(t, `
let n = ""
const a = [1]
try { a[1e15] = 1 } catch (e) { n = e.name }
n + a.length`, "RangeError1")
	expectThrowKind(t, `const a = []; a["16777216"] = 1`, runtime.RangeError)
	expectThrowKind(t, `const a = []; a.length = 1e300`, runtime.RangeError)
	expectNumber(t, `const a = []; a[5] = 1; a.length = 2; a.length`, 2)
}

func TestForOfGrowingArray(t *testing.T) {
	// The cursor sees elements pushed during the loop, so only the break
	// ends it.
	expectString(t, `
var array = [0]
var i = 0
for (var item of array) {
    if (i > 3) {
        break
    }
    i++
    array.push(1)
    array.push(2)
}
i + ":" + array.length`, "4:9")
}

func TestCatchBinding(t *testing.T) {
	expectNumber(t, `
let r = 0
try { throw 5 } catch (e) { e = e + 1; r = e }
r`, 6)
	expectString(t, `
let e = "outer"
try { throw 1 } catch (e) { e = "inner" }
e`, "outer")
	expectThrowKind(t, "try { throw 1 } catch (e) {}\ne", runtime.ReferenceError)
}
