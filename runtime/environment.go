package runtime

// DeclKind is the declaration form that introduced a binding.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
	DeclFunction
	DeclParam
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclFunction:
		return "function"
	case DeclParam:
		return "param"
	}
	return "var"
}

// Binding is one mutable slot of a frame.
type Binding struct {
	Value Value
	Kind  DeclKind
}

// Environment is one frame of the scope chain. Function values keep a
// pointer to the frame they were defined in, so frames are never copied.
type Environment struct {
	store    map[string]*Binding
	outer    *Environment
	function bool
}

// NewEnvironment creates a frame. function marks frames that receive var
// declarations: the program frame and every function body.
func NewEnvironment(outer *Environment, function bool) *Environment {
	return &Environment{
		store:    make(map[string]*Binding),
		outer:    outer,
		function: function,
	}
}

// Child creates a block frame whose parent is e.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e, false)
}

// Capture returns the frame a new function value closes over.
func (e *Environment) Capture() *Environment {
	return e
}

// Declare adds name to this frame. let and const fail when the name is
// already bound here; var and function declarations reuse the slot.
func (e *Environment) Declare(name string, kind DeclKind, value Value) error {
	if b, exists := e.store[name]; exists {
		switch {
		case kind == DeclLet || kind == DeclConst:
			return Errorf(RedeclarationError, "identifier '%s' has already been declared", name)
		case b.Kind == DeclLet || b.Kind == DeclConst:
			return Errorf(RedeclarationError, "identifier '%s' has already been declared", name)
		}
		b.Value = value
		if kind == DeclFunction {
			b.Kind = kind
		}
		return nil
	}
	e.store[name] = &Binding{Value: value, Kind: kind}
	return nil
}

// DeclareVar hoists a var binding initialised to undefined unless the
// name is already bound in this frame.
func (e *Environment) DeclareVar(name string) {
	if _, exists := e.store[name]; exists {
		return
	}
	e.store[name] = &Binding{Value: Undefined, Kind: DeclVar}
}

func (e *Environment) resolve(name string) *Binding {
	for cur := e; cur != nil; cur = cur.outer {
		if b, ok := cur.store[name]; ok {
			return b
		}
	}
	return nil
}

// Lookup returns the nearest binding of name.
func (e *Environment) Lookup(name string) (Value, error) {
	b := e.resolve(name)
	if b == nil {
		return Undefined, Errorf(ReferenceError, "%s is not defined", name)
	}
	return b.Value, nil
}

// Assign mutates the nearest binding of name.
func (e *Environment) Assign(name string, value Value) error {
	b := e.resolve(name)
	if b == nil {
		return Errorf(ReferenceError, "%s is not defined", name)
	}
	if b.Kind == DeclConst {
		return Errorf(TypeError, "assignment to constant variable '%s'", name)
	}
	b.Value = value
	return nil
}

// Has reports whether name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	return e.resolve(name) != nil
}

// HasOwn reports whether name is bound in this frame.
func (e *Environment) HasOwn(name string) bool {
	_, ok := e.store[name]
	return ok
}

// FunctionScope returns the nearest frame that receives var declarations.
func (e *Environment) FunctionScope() *Environment {
	for cur := e; cur != nil; cur = cur.outer {
		if cur.function || cur.outer == nil {
			return cur
		}
	}
	return e
}

func (e *Environment) Outer() *Environment {
	return e.outer
}

// Names lists the bindings of this frame.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	return names
}
