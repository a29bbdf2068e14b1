package interpreter

import (
	"slices"

	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/iteration"
	"github.com/example/gtscript/runtime"
)

// execStatements runs stmts in env and stops at the first abrupt outcome.
// A Normal outcome carries the value of the last expression statement.
func (interp *Interpreter) execStatements(stmts []ast.Statement, env *runtime.Environment) Outcome {
	var last runtime.Value
	for _, stmt := range stmts {
		o := interp.execStatement(stmt, env)
		if o.Abrupt() {
			return o
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = o.Value
		}
	}
	return normal(last)
}

func (interp *Interpreter) execStatement(stmt ast.Statement, env *runtime.Environment) Outcome {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		v, o := interp.eval(s.Expression, env)
		if o.Abrupt() {
			return o
		}
		return normal(v)
	case *ast.VariableDeclaration:
		return interp.execVariableDeclaration(s, env)
	case *ast.BlockStatement:
		return interp.execBlock(s, env)
	case *ast.ReturnStatement:
		if s.Value == nil {
			return Outcome{Kind: Return}
		}
		v, o := interp.eval(s.Value, env)
		if o.Abrupt() {
			return o
		}
		return Outcome{Kind: Return, Value: v}
	case *ast.IfStatement:
		return interp.execIf(s, env)
	case *ast.WhileStatement:
		return interp.execWhile(s, env, nil)
	case *ast.DoWhileStatement:
		return interp.execDoWhile(s, env, nil)
	case *ast.ForStatement:
		return interp.execFor(s, env, nil)
	case *ast.ForInStatement:
		return interp.execForIn(s, env, nil)
	case *ast.ForOfStatement:
		return interp.execForOf(s, env, nil)
	case *ast.BreakStatement:
		return Outcome{Kind: Break, Label: labelName(s.Label)}
	case *ast.ContinueStatement:
		return Outcome{Kind: Continue, Label: labelName(s.Label)}
	case *ast.SwitchStatement:
		return interp.execSwitch(s, env)
	case *ast.ThrowStatement:
		v, o := interp.eval(s.Argument, env)
		if o.Abrupt() {
			return o
		}
		interp.log.Trace().Str("value", runtime.Inspect(v)).Msg("throw")
		return throwValue(v)
	case *ast.TryStatement:
		return interp.execTry(s, env)
	case *ast.LabeledStatement:
		return interp.execLabeled(s, env, nil)
	case *ast.FunctionDeclaration, *ast.ClassDeclaration, *ast.ImportDeclaration, *ast.EmptyStatement:
		// bound during hoisting
		return Outcome{}
	}
	return throwError(runtime.TypeError, "unsupported statement %s", ast.NodeType(stmt))
}

func labelName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Value
}

func (interp *Interpreter) execVariableDeclaration(s *ast.VariableDeclaration, env *runtime.Environment) Outcome {
	for _, d := range s.Declarations {
		name := d.Name.Value
		if s.Kind == "var" {
			scope := env.FunctionScope()
			if d.Value == nil {
				scope.DeclareVar(name)
				continue
			}
			v, o := interp.eval(d.Value, env)
			if o.Abrupt() {
				return o
			}
			if err := scope.Declare(name, runtime.DeclVar, v); err != nil {
				return throwFrom(err)
			}
			continue
		}

		v := runtime.Undefined
		if d.Value != nil {
			var o Outcome
			v, o = interp.eval(d.Value, env)
			if o.Abrupt() {
				return o
			}
		}
		kind := runtime.DeclLet
		if s.Kind == "const" {
			kind = runtime.DeclConst
		}
		if err := env.Declare(name, kind, v); err != nil {
			return throwFrom(err)
		}
	}
	return Outcome{}
}

// execBlock runs a block in its own frame.
func (interp *Interpreter) execBlock(b *ast.BlockStatement, env *runtime.Environment) Outcome {
	blockEnv := env.Child()
	if o := interp.hoistDeclarations(b.Statements, blockEnv); o.Abrupt() {
		return o
	}
	return interp.execStatements(b.Statements, blockEnv)
}

func (interp *Interpreter) execIf(s *ast.IfStatement, env *runtime.Environment) Outcome {
	cond, o := interp.eval(s.Condition, env)
	if o.Abrupt() {
		return o
	}
	if runtime.ToBoolean(cond) {
		return interp.execStatement(s.Consequence, env)
	}
	if s.Alternative != nil {
		return interp.execStatement(s.Alternative, env)
	}
	return Outcome{}
}

// loopControl decides what a loop does with its body's outcome. exit
// reports that the loop is finished and result is what it completes with.
func loopControl(o Outcome, labels []string) (result Outcome, exit bool) {
	switch o.Kind {
	case Break:
		if o.Label == "" || slices.Contains(labels, o.Label) {
			return Outcome{}, true
		}
		return o, true
	case Continue:
		if o.Label == "" || slices.Contains(labels, o.Label) {
			return Outcome{}, false
		}
		return o, true
	case Return, Throw:
		return o, true
	}
	return Outcome{}, false
}

func (interp *Interpreter) execWhile(s *ast.WhileStatement, env *runtime.Environment, labels []string) Outcome {
	for {
		cond, o := interp.eval(s.Condition, env)
		if o.Abrupt() {
			return o
		}
		if !runtime.ToBoolean(cond) {
			return Outcome{}
		}
		if result, exit := loopControl(interp.execStatement(s.Body, env), labels); exit {
			return result
		}
	}
}

func (interp *Interpreter) execDoWhile(s *ast.DoWhileStatement, env *runtime.Environment, labels []string) Outcome {
	for {
		if result, exit := loopControl(interp.execStatement(s.Body, env), labels); exit {
			return result
		}
		cond, o := interp.eval(s.Condition, env)
		if o.Abrupt() {
			return o
		}
		if !runtime.ToBoolean(cond) {
			return Outcome{}
		}
	}
}

// execFor gives the loop head one frame shared by every iteration.
func (interp *Interpreter) execFor(s *ast.ForStatement, env *runtime.Environment, labels []string) Outcome {
	forEnv := env.Child()
	switch init := s.Init.(type) {
	case *ast.VariableDeclaration:
		if o := interp.execVariableDeclaration(init, forEnv); o.Abrupt() {
			return o
		}
	case ast.Expression:
		if _, o := interp.eval(init, forEnv); o.Abrupt() {
			return o
		}
	}

	for {
		if s.Test != nil {
			cond, o := interp.eval(s.Test, forEnv)
			if o.Abrupt() {
				return o
			}
			if !runtime.ToBoolean(cond) {
				return Outcome{}
			}
		}
		if result, exit := loopControl(interp.execStatement(s.Body, forEnv), labels); exit {
			return result
		}
		if s.Update != nil {
			if _, o := interp.eval(s.Update, forEnv); o.Abrupt() {
				return o
			}
		}
	}
}

// bindLoopVariable binds one for-in/for-of element. let and const get a
// fresh binding in iterEnv; var and bare targets assign.
func (interp *Interpreter) bindLoopVariable(left ast.Node, v runtime.Value, iterEnv *runtime.Environment) Outcome {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		name := l.Declarations[0].Name.Value
		var err error
		switch l.Kind {
		case "var":
			err = iterEnv.FunctionScope().Declare(name, runtime.DeclVar, v)
		case "const":
			err = iterEnv.Declare(name, runtime.DeclConst, v)
		default:
			err = iterEnv.Declare(name, runtime.DeclLet, v)
		}
		if err != nil {
			return throwFrom(err)
		}
		return Outcome{}
	case ast.Expression:
		return interp.assignTo(l, v, iterEnv)
	}
	return throwError(runtime.TypeError, "invalid loop binding")
}

func (interp *Interpreter) execForIn(s *ast.ForInStatement, env *runtime.Environment, labels []string) Outcome {
	src, o := interp.eval(s.Right, env)
	if o.Abrupt() {
		return o
	}
	keys, err := iteration.ForInKeys(src)
	if err != nil {
		return throwFrom(err)
	}
	for _, key := range keys {
		iterEnv := env.Child()
		if o := interp.bindLoopVariable(s.Left, runtime.NewString(key), iterEnv); o.Abrupt() {
			return o
		}
		if result, exit := loopControl(interp.execStatement(s.Body, iterEnv), labels); exit {
			return result
		}
	}
	return Outcome{}
}

func (interp *Interpreter) execForOf(s *ast.ForOfStatement, env *runtime.Environment, labels []string) Outcome {
	src, o := interp.eval(s.Right, env)
	if o.Abrupt() {
		return o
	}
	cursor, err := iteration.ForOf(src)
	if err != nil {
		return throwFrom(err)
	}
	for {
		v, ok := cursor.Next()
		if !ok {
			return Outcome{}
		}
		iterEnv := env.Child()
		if o := interp.bindLoopVariable(s.Left, v, iterEnv); o.Abrupt() {
			return o
		}
		if result, exit := loopControl(interp.execStatement(s.Body, iterEnv), labels); exit {
			return result
		}
	}
}

// execLabeled collects a run of labels. Loops receive the whole set; any
// other statement absorbs only a break aimed at one of its labels.
func (interp *Interpreter) execLabeled(s *ast.LabeledStatement, env *runtime.Environment, labels []string) Outcome {
	labels = append(labels, s.Label.Value)
	var o Outcome
	switch body := s.Body.(type) {
	case *ast.LabeledStatement:
		return interp.execLabeled(body, env, labels)
	case *ast.WhileStatement:
		return interp.execWhile(body, env, labels)
	case *ast.DoWhileStatement:
		return interp.execDoWhile(body, env, labels)
	case *ast.ForStatement:
		return interp.execFor(body, env, labels)
	case *ast.ForInStatement:
		return interp.execForIn(body, env, labels)
	case *ast.ForOfStatement:
		return interp.execForOf(body, env, labels)
	default:
		o = interp.execStatement(body, env)
	}
	if o.Kind == Break && o.Label != "" && slices.Contains(labels, o.Label) {
		return Outcome{}
	}
	return o
}

// execSwitch compares with strict equality, falls through between cases
// and absorbs only an unlabeled break. All cases share one frame.
func (interp *Interpreter) execSwitch(s *ast.SwitchStatement, env *runtime.Environment) Outcome {
	disc, o := interp.eval(s.Discriminant, env)
	if o.Abrupt() {
		return o
	}
	switchEnv := env.Child()
	for _, c := range s.Cases {
		if o := interp.hoistDeclarations(c.Consequent, switchEnv); o.Abrupt() {
			return o
		}
	}

	start, def := -1, -1
	for i, c := range s.Cases {
		if c.Test == nil {
			def = i
			continue
		}
		v, o := interp.eval(c.Test, switchEnv)
		if o.Abrupt() {
			return o
		}
		if runtime.StrictEquals(disc, v) {
			start = i
			break
		}
	}
	if start < 0 {
		start = def
	}
	if start < 0 {
		return Outcome{}
	}

	for _, c := range s.Cases[start:] {
		o := interp.execStatements(c.Consequent, switchEnv)
		if o.Kind == Break && o.Label == "" {
			return Outcome{}
		}
		if o.Abrupt() {
			return o
		}
	}
	return Outcome{}
}

// execTry runs the handler on a throw and adopts its outcome. A finally
// block that completes abruptly replaces whatever was pending.
func (interp *Interpreter) execTry(s *ast.TryStatement, env *runtime.Environment) Outcome {
	o := interp.execBlock(s.Block, env)

	if o.Kind == Throw && s.Handler != nil {
		catchEnv := env.Child()
		var err error
		if s.Handler.Param != nil {
			err = catchEnv.Declare(s.Handler.Param.Value, runtime.DeclLet, o.Value)
		}
		if err != nil {
			o = throwFrom(err)
		} else {
			o = interp.execBlock(s.Handler.Body, catchEnv)
		}
	}

	if s.Finalizer != nil {
		if f := interp.execBlock(s.Finalizer, env); f.Abrupt() {
			return f
		}
	}
	return o
}
