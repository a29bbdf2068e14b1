package interpreter

import (
	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/runtime"
)

// newClosure creates a function value that captures env.
func (interp *Interpreter) newClosure(fn *ast.FunctionLiteral, env *runtime.Environment) runtime.Value {
	return runtime.NewFunctionValue(&runtime.Function{
		Name:  fn.Name,
		Decl:  fn,
		Env:   env.Capture(),
		Arrow: fn.Arrow,
	})
}

// newClass creates a class constructor. Its methods are shared by every
// instance through the instance's Proto.
func (interp *Interpreter) newClass(decl *ast.ClassDeclaration, env *runtime.Environment) runtime.Value {
	methods := runtime.NewRecord()
	for _, m := range decl.Methods {
		methods.Set(m.Name, runtime.NewFunctionValue(&runtime.Function{
			Name: m.Name,
			Decl: m,
			Env:  env.Capture(),
		}))
	}
	return runtime.NewFunctionValue(&runtime.Function{
		Name:    decl.Name.Value,
		Env:     env.Capture(),
		Class:   decl,
		Methods: methods,
	})
}

// callFunction calls fn with the given receiver. The outcome is Normal or
// Throw.
func (interp *Interpreter) callFunction(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, Outcome) {
	if fn.Native != nil {
		v, err := fn.Native(this, args)
		if err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		return v, Outcome{}
	}
	if fn.Class != nil {
		return runtime.Undefined, throwError(runtime.TypeError, "class constructor %s cannot be invoked without 'new'", fn.Name)
	}
	return interp.invoke(fn.Name, fn.Decl, fn.Env, fn.Arrow, this, args)
}

// invoke runs a script function body in a new frame whose parent is the
// captured environment. Arrows do not bind this and see the enclosing one.
func (interp *Interpreter) invoke(name string, decl *ast.FunctionLiteral, captured *runtime.Environment, arrow bool, this runtime.Value, args []runtime.Value) (runtime.Value, Outcome) {
	if interp.depth >= interp.maxDepth {
		return runtime.Undefined, throwError(runtime.RangeError, "maximum call stack size exceeded")
	}
	interp.depth++
	defer func() { interp.depth-- }()
	interp.log.Trace().Str("function", name).Int("depth", interp.depth).Int("args", len(args)).Msg("call")

	frame := runtime.NewEnvironment(captured, true)
	if !arrow {
		frame.Declare("this", runtime.DeclConst, this)
	}
	for i, p := range decl.Params {
		v := runtime.Undefined
		if i < len(args) {
			v = args[i]
		}
		if v.Kind == runtime.KindUndefined && p.Default != nil {
			var o Outcome
			v, o = interp.eval(p.Default, frame)
			if o.Abrupt() {
				return runtime.Undefined, o
			}
		}
		frame.Declare(p.Name.Value, runtime.DeclParam, v)
	}
	if decl.Rest != nil {
		var rest []runtime.Value
		if len(args) > len(decl.Params) {
			rest = args[len(decl.Params):]
		}
		frame.Declare(decl.Rest.Value, runtime.DeclParam, runtime.NewArrayValue(runtime.NewArray(rest...)))
	}

	if o := interp.hoistFunctionScope(decl.Body.Statements, frame); o.Abrupt() {
		return runtime.Undefined, o
	}
	o := interp.execStatements(decl.Body.Statements, frame)
	switch o.Kind {
	case Return:
		return o.Value, Outcome{}
	case Throw:
		return runtime.Undefined, o
	case Break, Continue:
		return runtime.Undefined, escapedOutcome(o)
	}
	return runtime.Undefined, Outcome{}
}

// evalArguments evaluates call arguments left to right, expanding spreads.
func (interp *Interpreter) evalArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, Outcome) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		if spread, ok := expr.(*ast.SpreadElement); ok {
			vals, o := interp.evalSpread(spread, env)
			if o.Abrupt() {
				return nil, o
			}
			args = append(args, vals...)
			continue
		}
		v, o := interp.eval(expr, env)
		if o.Abrupt() {
			return nil, o
		}
		args = append(args, v)
	}
	return args, Outcome{}
}

// evalCall passes the object of a member callee as this.
func (interp *Interpreter) evalCall(e *ast.CallExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	this := runtime.Undefined
	var callee runtime.Value
	if m, ok := e.Callee.(*ast.MemberExpression); ok {
		obj, key, o := interp.evalMemberParts(m, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		v, err := getMember(obj, key)
		if err != nil {
			return runtime.Undefined, throwFrom(err)
		}
		this, callee = obj, v
	} else {
		v, o := interp.eval(e.Callee, env)
		if o.Abrupt() {
			return runtime.Undefined, o
		}
		callee = v
	}

	args, o := interp.evalArguments(e.Arguments, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	if callee.Kind != runtime.KindFunction {
		return runtime.Undefined, throwError(runtime.TypeError, "%s is not a function", describe(e.Callee))
	}
	return interp.callFunction(callee.Fn, this, args)
}

func (interp *Interpreter) evalNew(e *ast.NewExpression, env *runtime.Environment) (runtime.Value, Outcome) {
	callee, o := interp.eval(e.Callee, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	args, o := interp.evalArguments(e.Arguments, env)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	if callee.Kind != runtime.KindFunction || callee.Fn.Native != nil || callee.Fn.Arrow {
		return runtime.Undefined, throwError(runtime.TypeError, "%s is not a constructor", describe(e.Callee))
	}
	fn := callee.Fn
	if fn.Class != nil {
		return interp.construct(fn, args)
	}

	// plain functions construct a record unless they return one
	inst := runtime.NewRecordValue(runtime.NewRecord())
	v, o := interp.callFunction(fn, inst, args)
	if o.Abrupt() {
		return runtime.Undefined, o
	}
	if v.Kind == runtime.KindRecord {
		return v, Outcome{}
	}
	return inst, Outcome{}
}

// construct builds a class instance: fields first, in declaration order,
// then the constructor body.
func (interp *Interpreter) construct(fn *runtime.Function, args []runtime.Value) (runtime.Value, Outcome) {
	inst := runtime.NewRecord()
	inst.Proto = fn.Methods
	this := runtime.NewRecordValue(inst)

	if fields := fn.Class.Fields; len(fields) > 0 {
		fieldEnv := runtime.NewEnvironment(fn.Env, true)
		fieldEnv.Declare("this", runtime.DeclConst, this)
		for _, f := range fields {
			v := runtime.Undefined
			if f.Value != nil {
				var o Outcome
				v, o = interp.eval(f.Value, fieldEnv)
				if o.Abrupt() {
					return runtime.Undefined, o
				}
			}
			inst.Set(f.Name.Value, v)
		}
	}

	if ctor := fn.Class.Constructor; ctor != nil {
		if _, o := interp.invoke(fn.Name, ctor, fn.Env, false, this, args); o.Abrupt() {
			return runtime.Undefined, o
		}
	}
	return this, Outcome{}
}
