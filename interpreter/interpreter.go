package interpreter

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"

	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/builtins"
	"github.com/example/gtscript/parser"
	"github.com/example/gtscript/runtime"
)

// OutcomeKind classifies how a statement finished.
type OutcomeKind int

const (
	Normal OutcomeKind = iota
	Return
	Break
	Continue
	Throw
)

func (k OutcomeKind) String() string {
	switch k {
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Throw:
		return "throw"
	}
	return "normal"
}

// Outcome is the control-transfer signal produced by every statement.
// Value carries the returned or thrown value (or the last expression value
// for Normal); Label is set on labeled break and continue.
type Outcome struct {
	Kind  OutcomeKind
	Value runtime.Value
	Label string
}

// Abrupt reports whether control leaves the current statement list.
func (o Outcome) Abrupt() bool { return o.Kind != Normal }

func normal(v runtime.Value) Outcome { return Outcome{Kind: Normal, Value: v} }

func throwValue(v runtime.Value) Outcome { return Outcome{Kind: Throw, Value: v} }

func throwError(kind runtime.ErrorKind, format string, args ...any) Outcome {
	return throwValue(runtime.NewErrorRecord(kind, fmt.Sprintf(format, args...)))
}

// ThrowError carries an uncaught script throw across the Go API.
type ThrowError struct {
	Value runtime.Value
}

func (e *ThrowError) Error() string {
	return "uncaught " + e.Value.ToString()
}

// throwFrom converts a Go error returned by the runtime or a native into a
// script throw. Engine errors become error records.
func throwFrom(err error) Outcome {
	var te *ThrowError
	if errors.As(err, &te) {
		return throwValue(te.Value)
	}
	var re *runtime.Error
	if errors.As(err, &re) {
		return throwValue(runtime.NewErrorRecord(re.Kind, re.Message))
	}
	return throwValue(runtime.NewErrorRecord(runtime.TypeError, err.Error()))
}

// Resolver loads the module named by an import declaration and returns its
// exported bindings.
type Resolver interface {
	Resolve(name string) (*runtime.Record, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (*runtime.Record, error)

func (f ResolverFunc) Resolve(name string) (*runtime.Record, error) { return f(name) }

const DefaultMaxCallDepth = 512

// Interpreter executes programs against one persistent program frame.
// It is not safe for concurrent use.
type Interpreter struct {
	globals  *runtime.Environment
	env      *runtime.Environment
	log      zerolog.Logger
	resolver Resolver
	out      io.Writer
	maxDepth int
	depth    int
}

type Option func(*Interpreter)

func WithLogger(l zerolog.Logger) Option {
	return func(i *Interpreter) { i.log = l }
}

func WithResolver(r Resolver) Option {
	return func(i *Interpreter) { i.resolver = r }
}

// WithMaxCallDepth bounds nested calls; exceeding it throws a RangeError.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// WithOutput sets the writer used by fmt.println.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// New creates an interpreter with the built-in namespaces declared in a
// global frame and an empty program frame below it.
func New(opts ...Option) *Interpreter {
	interp := &Interpreter{
		log:      zerolog.Nop(),
		out:      io.Discard,
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(interp)
	}

	interp.globals = runtime.NewEnvironment(nil, true)
	builtins.RegisterAll(interp.globals, interp.out)
	interp.globals.Declare("NaN", runtime.DeclConst, runtime.NaN)
	interp.globals.Declare("Infinity", runtime.DeclConst, runtime.NewNumber(math.Inf(1)))

	interp.env = runtime.NewEnvironment(interp.globals, true)
	interp.env.Declare("this", runtime.DeclConst, runtime.Undefined)
	return interp
}

// Env returns the program frame.
func (interp *Interpreter) Env() *runtime.Environment {
	return interp.env
}

// Run executes a program in the program frame. Break or continue escaping
// the top level become a TypeError throw.
func (interp *Interpreter) Run(program *ast.Program) Outcome {
	if o := interp.hoistFunctionScope(program.Statements, interp.env); o.Abrupt() {
		return o
	}
	o := interp.execStatements(program.Statements, interp.env)
	switch o.Kind {
	case Break, Continue:
		o = escapedOutcome(o)
	case Throw:
		interp.log.Debug().Str("value", runtime.Inspect(o.Value)).Msg("uncaught throw")
	}
	return o
}

// Eval parses and runs source. A top-level return yields its value;
// otherwise the value of the last expression statement is returned.
func (interp *Interpreter) Eval(source string) (runtime.Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return runtime.Undefined, err
	}
	o := interp.Run(program)
	if o.Kind == Throw {
		return runtime.Undefined, &ThrowError{Value: o.Value}
	}
	return o.Value, nil
}

// Call invokes fn from Go. A script throw is returned as *ThrowError.
func (interp *Interpreter) Call(fn runtime.Value, this runtime.Value, args ...runtime.Value) (runtime.Value, error) {
	if fn.Kind != runtime.KindFunction {
		return runtime.Undefined, runtime.Errorf(runtime.TypeError, "%s is not a function", fn.TypeName())
	}
	v, o := interp.callFunction(fn.Fn, this, args)
	if o.Kind == Throw {
		return runtime.Undefined, &ThrowError{Value: o.Value}
	}
	return v, nil
}

// Lookup reads a binding visible from the program frame.
func (interp *Interpreter) Lookup(name string) (runtime.Value, error) {
	return interp.env.Lookup(name)
}

// Exports collects the exported top-level declarations of a program that
// has already run in this interpreter.
func (interp *Interpreter) Exports(program *ast.Program) *runtime.Record {
	rec := runtime.NewRecord()
	export := func(name string) {
		if v, err := interp.env.Lookup(name); err == nil {
			rec.Set(name, v)
		}
	}
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			if s.Exported {
				export(s.Function.Name)
			}
		case *ast.ClassDeclaration:
			if s.Exported {
				export(s.Name.Value)
			}
		case *ast.VariableDeclaration:
			if s.Exported {
				for _, d := range s.Declarations {
					export(d.Name.Value)
				}
			}
		}
	}
	return rec
}

// escapedOutcome turns a break or continue that left its function into a
// throw.
func escapedOutcome(o Outcome) Outcome {
	word := "break"
	if o.Kind == Continue {
		word = "continue"
	}
	if o.Label != "" {
		return throwError(runtime.TypeError, "illegal %s: label '%s' not found", word, o.Label)
	}
	return throwError(runtime.TypeError, "illegal %s outside of a loop", word)
}
