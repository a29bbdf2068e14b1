package interpreter

import (
	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/runtime"
)

// hoistFunctionScope prepares a program or function body: every var in the
// body (nested blocks included, nested functions excluded) is bound to
// undefined in scope, then the body's own declarations are hoisted.
func (interp *Interpreter) hoistFunctionScope(stmts []ast.Statement, scope *runtime.Environment) Outcome {
	for _, stmt := range stmts {
		collectVarNames(stmt, scope.DeclareVar)
	}
	return interp.hoistDeclarations(stmts, scope)
}

// hoistDeclarations binds the function, class and import declarations that
// appear directly in stmts, so they are usable anywhere in the block.
func (interp *Interpreter) hoistDeclarations(stmts []ast.Statement, env *runtime.Environment) Outcome {
	for _, stmt := range stmts {
		var err error
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			err = env.Declare(s.Function.Name, runtime.DeclFunction, interp.newClosure(s.Function, env))
		case *ast.ClassDeclaration:
			err = env.Declare(s.Name.Value, runtime.DeclFunction, interp.newClass(s, env))
		case *ast.ImportDeclaration:
			if o := interp.importModule(s, env); o.Abrupt() {
				return o
			}
		}
		if err != nil {
			return throwFrom(err)
		}
	}
	return Outcome{}
}

func (interp *Interpreter) importModule(s *ast.ImportDeclaration, env *runtime.Environment) Outcome {
	if interp.resolver == nil {
		return throwError(runtime.ReferenceError, "cannot import %q: no module resolver", s.Source)
	}
	exports, err := interp.resolver.Resolve(s.Source)
	if err != nil {
		return throwFrom(err)
	}
	interp.log.Trace().Str("module", s.Source).Str("as", s.Namespace.Value).Msg("import")
	if err := env.Declare(s.Namespace.Value, runtime.DeclConst, runtime.NewRecordValue(exports)); err != nil {
		return throwFrom(err)
	}
	return Outcome{}
}

// collectVarNames reports the names declared with var anywhere in stmt
// without descending into function bodies.
func collectVarNames(stmt ast.Statement, declare func(string)) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Kind == "var" {
			for _, d := range s.Declarations {
				declare(d.Name.Value)
			}
		}
	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			collectVarNames(inner, declare)
		}
	case *ast.IfStatement:
		collectVarNames(s.Consequence, declare)
		if s.Alternative != nil {
			collectVarNames(s.Alternative, declare)
		}
	case *ast.WhileStatement:
		collectVarNames(s.Body, declare)
	case *ast.DoWhileStatement:
		collectVarNames(s.Body, declare)
	case *ast.ForStatement:
		if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
			collectVarNames(decl, declare)
		}
		collectVarNames(s.Body, declare)
	case *ast.ForInStatement:
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			collectVarNames(decl, declare)
		}
		collectVarNames(s.Body, declare)
	case *ast.ForOfStatement:
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			collectVarNames(decl, declare)
		}
		collectVarNames(s.Body, declare)
	case *ast.LabeledStatement:
		collectVarNames(s.Body, declare)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, inner := range c.Consequent {
				collectVarNames(inner, declare)
			}
		}
	case *ast.TryStatement:
		collectVarNames(s.Block, declare)
		if s.Handler != nil {
			collectVarNames(s.Handler.Body, declare)
		}
		if s.Finalizer != nil {
			collectVarNames(s.Finalizer, declare)
		}
	}
}
