// Package driver hosts programs: it loads an entry file and its imports
// from an fs.FS, runs the top level, and reports the result.
package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/interpreter"
	"github.com/example/gtscript/parser"
	"github.com/example/gtscript/runtime"
)

// Result is the outcome of a program that ran to completion.
type Result struct {
	// Value is the top-level return value when Exit is set, otherwise the
	// value of the last expression statement.
	Value runtime.Value
	Exit  bool
	RunID uuid.UUID
}

// UncaughtError reports a throw that reached the top of a program.
type UncaughtError struct {
	Path  string
	RunID uuid.UUID
	Value runtime.Value
}

func (e *UncaughtError) Error() string {
	return fmt.Sprintf("%s: uncaught exception: %s", e.Path, e.Value.ToString())
}

func (e *UncaughtError) Unwrap() error {
	return &interpreter.ThrowError{Value: e.Value}
}

type Driver struct {
	fsys fs.FS
	cfg  *Config
	log  zerolog.Logger
	out  io.Writer
}

type Option func(*Driver)

func WithConfig(cfg *Config) Option {
	return func(d *Driver) { d.cfg = cfg }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithOutput sets where fmt.println writes.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// New creates a driver reading sources from fsys.
func New(fsys fs.FS, opts ...Option) *Driver {
	d := &Driver{
		fsys: fsys,
		cfg:  DefaultConfig(),
		log:  zerolog.Nop(),
		out:  io.Discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Config() *Config { return d.cfg }

// Program is one evaluated instance of a source file. Its modules are
// loaded once per instance.
type Program struct {
	Path   string
	RunID  uuid.UUID
	AST    *ast.Program
	interp *interpreter.Interpreter
	result interpreter.Outcome
	log    zerolog.Logger
}

func (d *Driver) interpreterOptions() []interpreter.Option {
	return []interpreter.Option{
		interpreter.WithLogger(d.log),
		interpreter.WithOutput(d.out),
		interpreter.WithMaxCallDepth(d.cfg.MaxCallDepth),
	}
}

// Load reads, parses and runs the top level of the file at name.
func (d *Driver) Load(name string) (*Program, error) {
	src, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return d.LoadSource(name, string(src))
}

// LoadSource runs src as if it were the file name. Imports resolve
// relative to the directory of name.
func (d *Driver) LoadSource(name, src string) (*Program, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	id := uuid.New()
	log := d.log.With().Str("run_id", id.String()).Logger()
	ld := newLoader(d.fsys, d.cfg.ModuleExt, log, d.interpreterOptions())
	ld.stack = []string{path.Clean(name)}
	interp := ld.newInterpreter(path.Dir(name))

	log.Debug().Str("path", name).Msg("run start")
	o := interp.Run(program)
	log.Debug().Str("path", name).Stringer("outcome", o.Kind).Msg("run finish")

	if o.Kind == interpreter.Throw {
		return nil, &UncaughtError{Path: name, RunID: id, Value: o.Value}
	}
	return &Program{
		Path:   name,
		RunID:  id,
		AST:    program,
		interp: interp,
		result: o,
		log:    log,
	}, nil
}

// Run loads name and reports how its top level finished.
func (d *Driver) Run(name string) (*Result, error) {
	p, err := d.Load(name)
	if err != nil {
		return nil, err
	}
	return p.Result(), nil
}

// Result reports how the top level finished.
func (p *Program) Result() *Result {
	return &Result{
		Value: p.result.Value,
		Exit:  p.result.Kind == interpreter.Return,
		RunID: p.RunID,
	}
}

// Functions lists the top-level function declarations whose names start
// with prefix, in source order.
func (p *Program) Functions(prefix string) []string {
	var names []string
	for _, stmt := range p.AST.Statements {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok && strings.HasPrefix(fd.Function.Name, prefix) {
			names = append(names, fd.Function.Name)
		}
	}
	return names
}

// CallExport calls the top-level function name with args.
func (p *Program) CallExport(name string, args ...runtime.Value) (runtime.Value, error) {
	fn, err := p.interp.Lookup(name)
	if err != nil {
		return runtime.Undefined, fmt.Errorf("%s: %w", p.Path, err)
	}
	if fn.Kind != runtime.KindFunction {
		return runtime.Undefined, fmt.Errorf("%s: %s is a %s, not a function", p.Path, name, fn.TypeName())
	}
	p.log.Trace().Str("function", name).Msg("call export")
	v, err := p.interp.Call(fn, runtime.Undefined, args...)
	var te *interpreter.ThrowError
	if errors.As(err, &te) {
		return runtime.Undefined, &UncaughtError{Path: p.Path, RunID: p.RunID, Value: te.Value}
	}
	return v, err
}

// Interpreter exposes the program's interpreter, e.g. for a REPL session
// continuing after a file was loaded.
func (p *Program) Interpreter() *interpreter.Interpreter {
	return p.interp
}

// NewSession returns an interpreter wired to this driver's module loader
// with an empty program frame.
func (d *Driver) NewSession() *interpreter.Interpreter {
	ld := newLoader(d.fsys, d.cfg.ModuleExt, d.log, d.interpreterOptions())
	return ld.newInterpreter(".")
}
