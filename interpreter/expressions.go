package interpreter

import (
	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/iteration"
	"github.com/example/gtscript/runtime"
)

// eval evaluates an expression. The outcome is Normal or Throw.
func (interp *Interpreter) eval(expr ast.Expression, env *runtime.Environment) (runtime.Value, Outcome) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.NewNumber(e.Value), Outcome{}
	case *ast.StringLiteral:
		return runtime.NewString(e.Value), Outcome{}
	case *ast.BooleanLiteral:
		return runtime.NewBool(e.Value), Outcome{}
	case *ast.NullLiteral:
		return runtime.Null, Outcome{}
	case *ast.UndefinedLiteral:
		return runtime.Undefined, Outcome{}
	case *ast.Identifier:
		v, err := env.Lookup(e.Value)
		if err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		return v, Outcome{}
	case *ast.ThisExpression:
		v, err := env.Lookup("this")
		if err != nil {
			return runtime.Undefined, Outcome{}
		}
		return v, Outcome{}
	case *ast.ArrayLiteral:
		return interp.evalArrayLiteral(e, env)
	case *ast.ObjectLiteral:
		return interp.evalObjectLiteral(e, env)
	case *ast.FunctionLiteral:
		return interp.newClosure(e, env), Outcome{}
	case *ast.UnaryExpression:
		return interp.evalUnary(e, env)
	case *ast.UpdateExpression:
		return interp.evalUpdate(e, env)
	case *ast.BinaryExpression:
		left, o := interp.eval(e.Left, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		right, o := interp.eval(e.Right, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		v, err := binaryOp(e.Operator, left, right)
		if err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		return v, Outcome{}
	case *ast.LogicalExpression:
		return interp.evalLogical(e, env)
	case *ast.AssignmentExpression:
		return interp.evalAssignment(e, env)
	case *ast.ConditionalExpression:
		test, o := interp.eval(e.Test, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		if runtime.ToBoolean(test) {
			return interp.eval(e.Consequent, env)
		}
		return interp.eval(e.Alternate, env)
	case *ast.CallExpression:
		return interp.evalCall(e, env)
	case *ast.MemberExpression:
		obj, key, o := interp.evalMemberParts(e, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		v, err := getMember(obj, key)
		if err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		return v, Outcome{}
	case *ast.NewExpression:
		return interp.evalNew(e, env)
	case *ast.SequenceExpression:
		var v runtime.Value
		for _, inner := range e.Expressions {
			var o Outcome
			v, o = interp.eval(inner, env)
			if o.Abrupt() {
				return runtime.Undefined, o
			}
		}
		return v, Outcome{}
	case *ast.SpreadElement:
		return runtime.Undefined, throwError(runtime.TypeError, "spread is only allowed in array literals and calls")
	}
	return runtime.Undefined, throwError(runtime.TypeError, "unsupported expression %s", ast.NodeType(expr))
}

// evalSpread expands ...arg into its elements. Holes read as undefined.
func (interp *Interpreter) evalSpread(s *ast.SpreadElement, env *runtime.Environment) ([]runtime.Value, Outcome) {
	v, o := interp.eval(s.Argument, env)
	if o.Abrupt() {
		return nil, o
	}
	if v.IsNullish() {
		return nil, throwError(runtime.TypeError, "%s is not iterable", v.TypeName())
	}
	cursor, err := iteration.ForOf(v)
	if err != nil {
		return nil, throwFrom(err)
	}
	return iteration.Collect(cursor), Outcome{}
}

func (interp *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, Outcome) {
	arr := runtime.NewSparseArray(0)
	n := 0
	for _, el := range e.Elements {
		switch el := el.(type) {
		case nil:
			n++
			arr.SetLength(n)
		case *ast.SpreadElement:
			vals, o := interp.evalSpread(el, env)
			if o.Abrupt() {
				return runtime.Undefined, o
			}
			for _, v := range vals {
				arr.Set(n, v)
				n++
			}
		default:
			v, o := interp.eval(el, env)
			if o.Abrupt() {
				return runtime.Undefined, o
			}
			arr.Set(n, v)
			n++
		}
	}
	return runtime.NewArrayValue(arr), Outcome{}
}

func (interp *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral, env *runtime.Environment) (runtime.Value, Outcome) {
	rec := runtime.NewRecord()
	for _, p := range e.Properties {
		var key string
		switch k := p.Key.(type) {
		case *ast.Identifier:
			if p.Computed {
				v, o := interp.eval(k, env)
				if o.Abrupt() {
					return runtime.Undefined, o
				}
				key = runtime.PropertyKey(v)
			} else {
				key = k.Value
			}
		case *ast.StringLiteral:
			key = k.Value
		case *ast.NumberLiteral:
			key = runtime.FormatNumber(k.Value)
		default:
			v, o := interp.eval(k, env)
			if o.Abrupt() {
				return runtime.Undefined, o
			}
			key = runtime.PropertyKey(v)
		}

		if fn, ok := p.Value.(*ast.FunctionLiteral); ok && fn.Name == "" && !fn.Arrow {
			closure := interp.newClosure(fn, env)
			closure.Fn.Name = key
			rec.Set(key, closure)
			continue
		}
		v, o := interp.eval(p.Value, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		rec.Set(key, v)
	}
	return runtime.NewRecordValue(rec), Outcome{}
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	// typeof tolerates undeclared names
	if id, ok := e.Operand.(*ast.Identifier); ok && e.Operator == "typeof" && !env.Has(id.Value) {
		return runtime.NewString("undefined"), Outcome{}
	}
	v, o := interp.eval(e.Operand, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	switch e.Operator {
	case "!":
		return runtime.NewBool(!runtime.ToBoolean(v)), Outcome{}
	case "-":
		return runtime.NewNumber(-runtime.ToNumber(v)), Outcome{}
	case "+":
		return runtime.NewNumber(runtime.ToNumber(v)), Outcome{}
	case "~":
		return runtime.NewNumber(float64(^runtime.ToInt32(v))), Outcome{}
	case "typeof":
		return runtime.NewString(runtime.TypeOf(v)), Outcome{}
	case "void":
		return runtime.Undefined, Outcome{}
	}
	return runtime.Undefined, throwError(runtime.TypeError, "unsupported unary operator %s", e.Operator)
}

func (interp *Interpreter) evalLogical(e *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	left, o := interp.eval(e.Left, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	switch e.Operator {
	case "&&":
		if !runtime.ToBoolean(left) {
			return left, Outcome{}
		}
	case "||":
		if runtime.ToBoolean(left) {
			return left, Outcome{}
		}
	case "??":
		if !left.IsNullish() {
			return left, Outcome{}
		}
	}
	return interp.eval(e.Right, env)
}

// reference is an evaluated assignment target: a name, or an object and
// key pair.
type reference struct {
	name string
	obj  runtime.Value
	key  runtime.Value
}

func (interp *Interpreter) evalReference(target ast.Expression, env *runtime.Environment) (reference, Outcome) {
	switch t := target.(type) {
	case *ast.Identifier:
		return reference{name: t.Value}, Outcome{}
	case *ast.MemberExpression:
		obj, key, o := interp.evalMemberParts(t, env)
		return reference{obj: obj, key: key}, o
	}
	return reference{}, throwError(runtime.ReferenceError, "invalid assignment target %s", ast.NodeType(target))
}

func (r reference) get(env *runtime.Environment) (runtime.Value, error) {
	if r.name != "" {
		return env.Lookup(r.name)
	}
	return getMember(r.obj, r.key)
}

func (r reference) set(env *runtime.Environment, v runtime.Value) error {
	if r.name != "" {
		return env.Assign(r.name, v)
	}
	return setMember(r.obj, r.key, v)
}

// assignTo stores v into a target expression.
func (interp *Interpreter) assignTo(target ast.Expression, v runtime.Value, env *runtime.Environment) Outcome {
	ref, o := interp.evalReference(target, env)
	if o.Abrupt() {
		return o
	}
	if err := ref.set(env, v); err != nil {
		return throwFrom(err)
	}
	return Outcome{}
}

func (interp *Interpreter) evalAssignment(e *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	ref, o := interp.evalReference(e.Target, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}

	if e.Operator == "=" {
		v, o := interp.eval(e.Value, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		if err := ref.set(env, v); err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		return v, Outcome{}
	}

	old, err := ref.get(env)
	if err != nil {
		return runtime.Undefined, throwFrom(err)
	}
	op := e.Operator[:len(e.Operator)-1]
	right, o := interp.eval(e.Value, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	v, err := binaryOp(op, old, right)
	if err != nil {
		return runtime.Undefined, throwFrom(err)
	}
	if err := ref.set(env, v); err != nil {
		return runtime.Undefined, throwFrom(err)
	}
	return v, Outcome{}
}

func (interp *Interpreter) evalUpdate(e *ast.UpdateExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	ref, o := interp.evalReference(e.Target, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	old, err := ref.get(env)
	if err != nil {
		return runtime.Undefined, throwFrom(err)
	}
	n := runtime.ToNumber(old)
	updated := n + 1
	if e.Operator == "--" {
		updated = n - 1
	}
	if err := ref.set(env, runtime.NewNumber(updated)); err != nil {
		return runtime.Undefined, throwFrom(err)
	}
	if e.Prefix {
		return runtime.NewNumber(updated), Outcome{}
	}
	return runtime.NewNumber(n), Outcome{}
}

// evalMemberParts evaluates the object and the key of a member access.
func (interp *Interpreter) evalMemberParts(e *ast.MemberExpression, env *runtime.Environment) (runtime.Value, runtime.Value, Outcome) {
	obj, o := interp.eval(e.Object, env)
	if o.Abrupt() {
		return runtime.Undefined, runtime.Undefined, o
	}
	if !e.Computed {
		if id, ok := e.Property.(*ast.Identifier); ok {
			return obj, runtime.NewString(id.Value), Outcome{}
		}
	}
	key, o := interp.eval(e.Property, env)
	if o.Abrupt() {
		return runtime.Undefined, runtime.Undefined, o
	}
	return obj, key, Outcome{}
}

// describe renders a callee for error messages.
func describe(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.ThisExpression:
		return "this"
	case *ast.MemberExpression:
		if id, ok := e.Property.(*ast.Identifier); ok && !e.Computed {
			return describe(e.Object) + "." + id.Value
		}
		return describe(e.Object) + "[...]"
	case *ast.CallExpression:
		return describe(e.Callee) + "(...)"
	}
	return "expression"
}
