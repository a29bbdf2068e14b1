package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/gtscript/interpreter"
	"github.com/example/gtscript/parser"
	"github.com/example/gtscript/runtime"
)

type moduleState int

const (
	modLoading moduleState = iota
	modLoaded
)

type moduleRec struct {
	state   moduleState
	exports *runtime.Record
}

// loader resolves imports from an fs.FS. Each module is evaluated once in
// its own interpreter; later imports share the cached exports. Failures
// are not cached.
type loader struct {
	fsys    fs.FS
	exts    []string
	log     zerolog.Logger
	options []interpreter.Option
	modules map[string]*moduleRec
	stack   []string
}

func newLoader(fsys fs.FS, exts []string, log zerolog.Logger, options []interpreter.Option) *loader {
	return &loader{
		fsys:    fsys,
		exts:    exts,
		log:     log,
		options: options,
		modules: make(map[string]*moduleRec),
	}
}

// resolverFor resolves import names relative to dir.
func (l *loader) resolverFor(dir string) interpreter.Resolver {
	return interpreter.ResolverFunc(func(name string) (*runtime.Record, error) {
		return l.load(dir, name)
	})
}

// newInterpreter creates the interpreter a module in dir runs in.
func (l *loader) newInterpreter(dir string) *interpreter.Interpreter {
	opts := append(slices.Clone(l.options), interpreter.WithResolver(l.resolverFor(dir)))
	return interpreter.New(opts...)
}

// candidates lists the files an import name may refer to.
func (l *loader) candidates(dir, name string) []string {
	p := path.Join(dir, name)
	if slices.Contains(l.exts, path.Ext(name)) {
		return []string{p}
	}
	out := make([]string, 0, len(l.exts))
	for _, ext := range l.exts {
		out = append(out, p+ext)
	}
	return out
}

func (l *loader) fetch(dir, name string) (string, []byte, error) {
	if strings.HasPrefix(name, "/") {
		return "", nil, runtime.Errorf(runtime.ReferenceError, "module %q: absolute paths are not allowed", name)
	}
	for _, p := range l.candidates(dir, name) {
		if !fs.ValidPath(p) {
			return "", nil, runtime.Errorf(runtime.ReferenceError, "module %q resolves outside the root", name)
		}
		src, err := fs.ReadFile(l.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("reading module %s: %w", p, err)
		}
		return p, src, nil
	}
	return "", nil, runtime.Errorf(runtime.ReferenceError, "module %q not found", name)
}

func (l *loader) load(dir, name string) (*runtime.Record, error) {
	canon, src, err := l.fetch(dir, name)
	if err != nil {
		return nil, err
	}

	if slices.Contains(l.stack, canon) {
		return nil, runtime.Errorf(runtime.ReferenceError, "import cycle detected: %s", joinCyclePath(l.stack, canon))
	}
	if rec, ok := l.modules[canon]; ok && rec.state == modLoaded {
		return rec.exports, nil
	}

	l.stack = append(l.stack, canon)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()
	l.modules[canon] = &moduleRec{state: modLoading}

	program, err := parser.Parse(string(src))
	if err != nil {
		delete(l.modules, canon)
		return nil, fmt.Errorf("%s: %w", canon, err)
	}

	interp := l.newInterpreter(path.Dir(canon))
	if o := interp.Run(program); o.Kind == interpreter.Throw {
		delete(l.modules, canon)
		return nil, &interpreter.ThrowError{Value: o.Value}
	}

	exports := interp.Exports(program)
	l.modules[canon] = &moduleRec{state: modLoaded, exports: exports}
	l.log.Debug().Str("module", canon).Int("exports", exports.Len()).Msg("module loaded")
	return exports, nil
}

// joinCyclePath renders "a.ts -> b.ts -> a.ts".
func joinCyclePath(stack []string, again string) string {
	i := slices.Index(stack, again)
	if i < 0 {
		i = 0
	}
	chain := append(slices.Clone(stack[i:]), again)
	return strings.Join(chain, " -> ")
}
