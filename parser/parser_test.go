package parser

import (
	"testing"

	"github.com/example/gtscript/ast"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(input)
	prog, errs := p.ParseProgram()
	if len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("parser error: %s", e)
		}
		t.FailNow()
	}
	return prog
}

func parseWithErrors(input string) (*ast.Program, []error) {
	p := New(input)
	return p.ParseProgram()
}

func expectStmtCount(t *testing.T, prog *ast.Program, n int) {
	t.Helper()
	if len(prog.Statements) != n {
		t.Fatalf("expected %d statements, got %d", n, len(prog.Statements))
	}
}

// exprOf returns the expression of statement i, which must be an
// expression statement.
func exprOf(t *testing.T, prog *ast.Program, i int) ast.Expression {
	t.Helper()
	stmt, ok := prog.Statements[i].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Statements[i])
	}
	return stmt.Expression
}

// initOf returns the initializer of the first declarator of statement i.
func initOf(t *testing.T, prog *ast.Program, i int) ast.Expression {
	t.Helper()
	decl, ok := prog.Statements[i].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Statements[i])
	}
	return decl.Declarations[0].Value
}

// ---------- Variable Declarations ----------

func TestVarDeclaration(t *testing.T) {
	prog := parse(t, `var x = 1;`)
	expectStmtCount(t, prog, 1)
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Statements[0])
	}
	if decl.Kind != "var" {
		t.Errorf("expected kind var, got %s", decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarations))
	}
	if decl.Declarations[0].Name.Value != "x" {
		t.Errorf("expected x, got %s", decl.Declarations[0].Name.Value)
	}
}

func TestLetConstDeclaration(t *testing.T) {
	prog := parse(t, `let a = 1; const b = 2`)
	expectStmtCount(t, prog, 2)
	if k := prog.Statements[0].(*ast.VariableDeclaration).Kind; k != "let" {
		t.Errorf("expected let, got %s", k)
	}
	if k := prog.Statements[1].(*ast.VariableDeclaration).Kind; k != "const" {
		t.Errorf("expected const, got %s", k)
	}
}

func TestMultipleDeclarators(t *testing.T) {
	prog := parse(t, `var a = 1, b = 2, c;`)
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	if len(decl.Declarations) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(decl.Declarations))
	}
	if decl.Declarations[2].Value != nil {
		t.Errorf("expected c to have no initializer")
	}
}

func TestTypeAnnotationsAreSkipped(t *testing.T) {
	tests := []string{
		`let a: number = 1`,
		`let a: number[] = 1`,
		`let a: Array<Map<string, number>> = 1`,
		`let a: string | null = 1`,
		`let a: { x: number; y?: string } = 1`,
		`let a: [number, string] = 1`,
		`let a: (x: number) => void = 1`,
		`let a!: any = 1`,
		`let a: "on" | "off" = 1`,
	}
	for _, input := range tests {
		prog := parse(t, input)
		expectStmtCount(t, prog, 1)
		lit, ok := initOf(t, prog, 0).(*ast.NumberLiteral)
		if !ok || lit.Value != 1 {
			t.Errorf("%s: expected initializer 1, got %#v", input, initOf(t, prog, 0))
		}
	}
}

// ---------- Literals ----------

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"5", 5},
		{"3.25", 3.25},
		{"0xFF", 255},
		{"0b101", 5},
		{"1_000_000", 1000000},
		{"1e3", 1000},
		{".5", 0.5},
	}
	for _, tt := range tests {
		prog := parse(t, tt.input)
		lit, ok := exprOf(t, prog, 0).(*ast.NumberLiteral)
		if !ok {
			t.Fatalf("%s: expected NumberLiteral, got %T", tt.input, exprOf(t, prog, 0))
		}
		if lit.Value != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.input, tt.want, lit.Value)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	prog := parse(t, `'it\'s' + "é"`)
	bin := exprOf(t, prog, 0).(*ast.BinaryExpression)
	if s := bin.Left.(*ast.StringLiteral).Value; s != "it's" {
		t.Errorf("expected it's, got %q", s)
	}
	if s := bin.Right.(*ast.StringLiteral).Value; s != "é" {
		t.Errorf("expected é, got %q", s)
	}
}

func TestArrayLiteralHoles(t *testing.T) {
	tests := []struct {
		input string
		n     int
		holes []int
	}{
		{"[1, 2, 3]", 3, nil},
		{"[1, null, 3, , 4]", 5, []int{3}},
		{"[1, 2, , , , 3]", 6, []int{2, 3, 4}},
		{"[0, 'a', true, false, null, undefined, ,]", 6, nil},
		{"[1, 2,]", 2, nil},
		{"[]", 0, nil},
	}
	for _, tt := range tests {
		prog := parse(t, tt.input)
		arr, ok := exprOf(t, prog, 0).(*ast.ArrayLiteral)
		if !ok {
			t.Fatalf("%s: expected ArrayLiteral, got %T", tt.input, exprOf(t, prog, 0))
		}
		if len(arr.Elements) != tt.n {
			t.Errorf("%s: expected %d elements, got %d", tt.input, tt.n, len(arr.Elements))
			continue
		}
		holes := 0
		for i, el := range arr.Elements {
			if el == nil {
				holes++
				found := false
				for _, h := range tt.holes {
					found = found || h == i
				}
				if !found {
					t.Errorf("%s: unexpected hole at %d", tt.input, i)
				}
			}
		}
		if holes != len(tt.holes) {
			t.Errorf("%s: expected %d holes, got %d", tt.input, len(tt.holes), holes)
		}
	}
}

func TestArrayWithSpread(t *testing.T) {
	prog := parse(t, `[1, ...rest]`)
	arr := exprOf(t, prog, 0).(*ast.ArrayLiteral)
	if _, ok := arr.Elements[1].(*ast.SpreadElement); !ok {
		t.Errorf("expected SpreadElement, got %T", arr.Elements[1])
	}
}

func TestObjectLiteral(t *testing.T) {
	prog := parse(t, `let o = { a: 1, "b": 2, 3: 4, [k]: 5, c, m() { return 1 }, default: 6, }`)
	obj, ok := initOf(t, prog, 0).(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", initOf(t, prog, 0))
	}
	if len(obj.Properties) != 7 {
		t.Fatalf("expected 7 properties, got %d", len(obj.Properties))
	}
	if !obj.Properties[3].Computed {
		t.Errorf("expected [k] to be computed")
	}
	if id, ok := obj.Properties[4].Value.(*ast.Identifier); !ok || id.Value != "c" {
		t.Errorf("expected shorthand value c, got %#v", obj.Properties[4].Value)
	}
	if fn, ok := obj.Properties[5].Value.(*ast.FunctionLiteral); !ok || fn.Name != "m" {
		t.Errorf("expected method m, got %#v", obj.Properties[5].Value)
	}
	if id := obj.Properties[6].Key.(*ast.Identifier); id.Value != "default" {
		t.Errorf("expected keyword key default, got %s", id.Value)
	}
}

// ---------- Operators ----------

func TestOperatorPrecedence(t *testing.T) {
	prog := parse(t, `1 + 2 * 3`)
	bin := exprOf(t, prog, 0).(*ast.BinaryExpression)
	if bin.Operator != "+" {
		t.Fatalf("expected + at the root, got %s", bin.Operator)
	}
	if right := bin.Right.(*ast.BinaryExpression); right.Operator != "*" {
		t.Errorf("expected * on the right, got %s", right.Operator)
	}
}

func TestLeftAssociativity(t *testing.T) {
	prog := parse(t, `a - b - c`)
	bin := exprOf(t, prog, 0).(*ast.BinaryExpression)
	if _, ok := bin.Left.(*ast.BinaryExpression); !ok {
		t.Errorf("expected (a - b) - c, got left %T", bin.Left)
	}
}

func TestAssignmentRightAssociativity(t *testing.T) {
	prog := parse(t, `a = b += c`)
	assign := exprOf(t, prog, 0).(*ast.AssignmentExpression)
	inner, ok := assign.Value.(*ast.AssignmentExpression)
	if !ok || inner.Operator != "+=" {
		t.Errorf("expected nested += assignment, got %#v", assign.Value)
	}
}

func TestLogicalExpressions(t *testing.T) {
	prog := parse(t, `a || b && c ?? d`)
	root := exprOf(t, prog, 0).(*ast.LogicalExpression)
	if root.Operator != "??" {
		t.Fatalf("expected ?? at the root, got %s", root.Operator)
	}
	or := root.Left.(*ast.LogicalExpression)
	if or.Operator != "||" {
		t.Errorf("expected ||, got %s", or.Operator)
	}
	if and := or.Right.(*ast.LogicalExpression); and.Operator != "&&" {
		t.Errorf("expected &&, got %s", and.Operator)
	}
}

func TestUnaryExpressions(t *testing.T) {
	prog := parse(t, `typeof x === "string"`)
	bin := exprOf(t, prog, 0).(*ast.BinaryExpression)
	if bin.Operator != "===" {
		t.Fatalf("expected ===, got %s", bin.Operator)
	}
	if un := bin.Left.(*ast.UnaryExpression); un.Operator != "typeof" {
		t.Errorf("expected typeof, got %s", un.Operator)
	}
}

func TestUpdateExpressions(t *testing.T) {
	prog := parse(t, `++a; b--; o.c++`)
	pre := exprOf(t, prog, 0).(*ast.UpdateExpression)
	if !pre.Prefix || pre.Operator != "++" {
		t.Errorf("expected prefix ++, got %+v", pre)
	}
	post := exprOf(t, prog, 1).(*ast.UpdateExpression)
	if post.Prefix || post.Operator != "--" {
		t.Errorf("expected postfix --, got %+v", post)
	}
	member := exprOf(t, prog, 2).(*ast.UpdateExpression)
	if _, ok := member.Target.(*ast.MemberExpression); !ok {
		t.Errorf("expected member target, got %T", member.Target)
	}
}

func TestConditionalExpression(t *testing.T) {
	prog := parse(t, `x = a ? b : c`)
	assign := exprOf(t, prog, 0).(*ast.AssignmentExpression)
	if _, ok := assign.Value.(*ast.ConditionalExpression); !ok {
		t.Errorf("expected ConditionalExpression, got %T", assign.Value)
	}
}

func TestTypeAssertionsAreDropped(t *testing.T) {
	prog := parse(t, `let a = b as any; c!.d`)
	if id, ok := initOf(t, prog, 0).(*ast.Identifier); !ok || id.Value != "b" {
		t.Errorf("expected b, got %#v", initOf(t, prog, 0))
	}
	member := exprOf(t, prog, 1).(*ast.MemberExpression)
	if id := member.Object.(*ast.Identifier); id.Value != "c" {
		t.Errorf("expected c, got %s", id.Value)
	}
}

// ---------- Calls and Members ----------

func TestCallExpressionWithSpread(t *testing.T) {
	prog := parse(t, `sum(1, 2, ...a)`)
	call := exprOf(t, prog, 0).(*ast.CallExpression)
	if len(call.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Arguments))
	}
	if _, ok := call.Arguments[2].(*ast.SpreadElement); !ok {
		t.Errorf("expected SpreadElement, got %T", call.Arguments[2])
	}
}

func TestChainedMembers(t *testing.T) {
	prog := parse(t, `a.foo.bar[0].default(x)()`)
	outer := exprOf(t, prog, 0).(*ast.CallExpression)
	inner := outer.Callee.(*ast.CallExpression)
	member := inner.Callee.(*ast.MemberExpression)
	if member.Computed || member.Property.(*ast.Identifier).Value != "default" {
		t.Errorf("expected .default, got %#v", member.Property)
	}
	index := member.Object.(*ast.MemberExpression)
	if !index.Computed {
		t.Errorf("expected computed [0]")
	}
}

func TestNewExpression(t *testing.T) {
	prog := parse(t, `new Person("John", 33); new Foo; new Map<string, number>()`)
	n := exprOf(t, prog, 0).(*ast.NewExpression)
	if id := n.Callee.(*ast.Identifier); id.Value != "Person" {
		t.Errorf("expected Person, got %s", id.Value)
	}
	if len(n.Arguments) != 2 {
		t.Errorf("expected 2 arguments, got %d", len(n.Arguments))
	}
	if n := exprOf(t, prog, 1).(*ast.NewExpression); n.Arguments != nil {
		t.Errorf("expected no arguments")
	}
	if n := exprOf(t, prog, 2).(*ast.NewExpression); n.Callee.(*ast.Identifier).Value != "Map" {
		t.Errorf("expected Map callee")
	}
}

// ---------- Functions ----------

func TestFunctionDeclaration(t *testing.T) {
	prog := parse(t, `function add<T>(a: number, b?: number, c = 2, ...rest: number[]): number { return a }`)
	decl := prog.Statements[0].(*ast.FunctionDeclaration)
	fn := decl.Function
	if fn.Name != "add" {
		t.Errorf("expected add, got %s", fn.Name)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if fn.Params[2].Default == nil {
		t.Errorf("expected default for c")
	}
	if fn.Rest == nil || fn.Rest.Value != "rest" {
		t.Errorf("expected rest param, got %v", fn.Rest)
	}
}

func TestTrailingCommaInParams(t *testing.T) {
	prog := parse(t, `function f(msg: string, func: Function, ) {}`)
	fn := prog.Statements[0].(*ast.FunctionDeclaration).Function
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		input  string
		params int
	}{
		{`let f = () => { v++ }`, 0},
		{`let f = x => x * 2`, 1},
		{`let f = (a, b) => a + b`, 2},
		{`let f = (a: number, b?: string): number => a`, 2},
		{`let f = (): { n: number } => ({ n: 1 })`, 0},
	}
	for _, tt := range tests {
		prog := parse(t, tt.input)
		fn, ok := initOf(t, prog, 0).(*ast.FunctionLiteral)
		if !ok {
			t.Fatalf("%s: expected FunctionLiteral, got %T", tt.input, initOf(t, prog, 0))
		}
		if !fn.Arrow {
			t.Errorf("%s: expected arrow", tt.input)
		}
		if len(fn.Params) != tt.params {
			t.Errorf("%s: expected %d params, got %d", tt.input, tt.params, len(fn.Params))
		}
	}
}

func TestArrowExpressionBodyReturns(t *testing.T) {
	prog := parse(t, `let f = x => x`)
	fn := initOf(t, prog, 0).(*ast.FunctionLiteral)
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*ast.ReturnStatement); !ok {
		t.Errorf("expected ReturnStatement, got %T", fn.Body.Statements[0])
	}
}

func TestParenthesizedIsNotArrow(t *testing.T) {
	prog := parse(t, `let v = (a + b) * c`)
	if _, ok := initOf(t, prog, 0).(*ast.BinaryExpression); !ok {
		t.Errorf("expected BinaryExpression, got %T", initOf(t, prog, 0))
	}
}

func TestClassDeclaration(t *testing.T) {
	prog := parse(t, `
class Person implements Named {
    name: string
    private age: number = 0

    constructor(name: string, age: number) {
        this.name = name
        this.age = age
    }

    getName() {
        return this.name
    }
}`)
	decl := prog.Statements[0].(*ast.ClassDeclaration)
	if decl.Name.Value != "Person" {
		t.Errorf("expected Person, got %s", decl.Name.Value)
	}
	if len(decl.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(decl.Fields))
	}
	if decl.Fields[1].Value == nil {
		t.Errorf("expected initializer on age")
	}
	if decl.Constructor == nil || len(decl.Constructor.Params) != 2 {
		t.Errorf("expected constructor with 2 params")
	}
	if len(decl.Methods) != 1 || decl.Methods[0].Name != "getName" {
		t.Errorf("expected method getName")
	}
}

func TestClassExtendsRejected(t *testing.T) {
	_, errs := parseWithErrors(`class A extends B {}`)
	if len(errs) == 0 {
		t.Fatal("expected an error for extends")
	}
}

// ---------- Statements ----------

func TestIfElseStatement(t *testing.T) {
	prog := parse(t, `if (a) { b } else if (c) d; else { e }`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	if _, ok := stmt.Alternative.(*ast.IfStatement); !ok {
		t.Errorf("expected else-if, got %T", stmt.Alternative)
	}
}

func TestWhileAndDoWhile(t *testing.T) {
	prog := parse(t, "\uFEFF// header\n/* block\n */ let a = 1 // trailing\n//@ts-ignore\nlabel: a++")
	expectStmtCount(t, prog, 2)
}
