package runtime

import (
	"github.com/example/gtscript/ast"
)

// MaxArrayLength bounds how far an index or length assignment may grow an
// array.
const MaxArrayLength = 1 << 24

// CheckLength reports a RangeError when n is not a length an array may
// grow to.
func CheckLength(n int) error {
	if n < 0 || n > MaxArrayLength {
		return Errorf(RangeError, "invalid array length %d (maximum %d)", n, MaxArrayLength)
	}
	return nil
}

// Array is an ordered, growable sequence. A nil slot is a hole: an index
// inside the length that was never assigned.
type Array struct {
	items []*Value
}

func NewArray(values ...Value) *Array {
	a := &Array{items: make([]*Value, len(values))}
	for i := range values {
		v := values[i]
		a.items[i] = &v
	}
	return a
}

// NewSparseArray returns an array of n holes.
func NewSparseArray(n int) *Array {
	return &Array{items: make([]*Value, n)}
}

func (a *Array) Len() int { return len(a.items) }

// At returns the element at i and whether it is present. Holes and
// out-of-range indices report false.
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) || a.items[i] == nil {
		return Undefined, false
	}
	return *a.items[i], true
}

// Get is At without the presence flag.
func (a *Array) Get(i int) Value {
	v, _ := a.At(i)
	return v
}

// Has reports whether index i holds an assigned value.
func (a *Array) Has(i int) bool {
	return i >= 0 && i < len(a.items) && a.items[i] != nil
}

// Set assigns index i, growing the array with holes when i is past the end.
func (a *Array) Set(i int, v Value) {
	if i >= len(a.items) {
		grown := make([]*Value, i+1)
		copy(grown, a.items)
		a.items = grown
	}
	a.items[i] = &v
}

// SetLength truncates or extends (with holes) to n elements.
func (a *Array) SetLength(n int) {
	if n <= len(a.items) {
		a.items = a.items[:n]
		return
	}
	grown := make([]*Value, n)
	copy(grown, a.items)
	a.items = grown
}

func (a *Array) Push(values ...Value) {
	for i := range values {
		v := values[i]
		a.items = append(a.items, &v)
	}
}

// Append copies the slots of other, holes included.
func (a *Array) Append(other *Array) {
	a.items = append(a.items, other.items...)
}

// Insert shifts elements at and after i one to the right.
func (a *Array) Insert(i int, v Value) error {
	if i < 0 || i > len(a.items) {
		return Errorf(IndexError, "index %d out of range [0, %d]", i, len(a.items))
	}
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = &v
	return nil
}

// Remove shifts elements after i one to the left.
func (a *Array) Remove(i int) error {
	if i < 0 || i >= len(a.items) {
		return Errorf(IndexError, "index %d out of range [0, %d)", i, len(a.items))
	}
	copy(a.items[i:], a.items[i+1:])
	a.items[len(a.items)-1] = nil
	a.items = a.items[:len(a.items)-1]
	return nil
}

// RemoveRange deletes the half-open range [start, end).
func (a *Array) RemoveRange(start, end int) error {
	if start < 0 || end > len(a.items) || start > end {
		return Errorf(IndexError, "range [%d, %d) out of bounds for length %d", start, end, len(a.items))
	}
	a.items = append(a.items[:start], a.items[end:]...)
	return nil
}

// Reverse reverses the slots in place; holes move with them.
func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
}

// Values returns a copy of the elements with holes read as undefined.
func (a *Array) Values() []Value {
	out := make([]Value, len(a.items))
	for i, p := range a.items {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

// Slice returns a new array sharing no storage with a.
func (a *Array) Slice(start, end int) *Array {
	items := make([]*Value, end-start)
	for i, p := range a.items[start:end] {
		if p != nil {
			v := *p
			items[i] = &v
		}
	}
	return &Array{items: items}
}

// Record is a string-keyed map that remembers insertion order. Proto holds
// class methods shared by instances and is consulted by Lookup only.
type Record struct {
	keys   []string
	values map[string]Value
	Proto  *Record
}

func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

func (r *Record) Len() int { return len(r.keys) }

// Keys returns the own keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Lookup reads an own key and falls back to the prototype chain.
func (r *Record) Lookup(key string) (Value, bool) {
	for cur := r; cur != nil; cur = cur.Proto {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return Undefined, false
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set overwrites an existing key in place or appends a new one.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Delete removes key. Missing keys are ignored.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clone is a shallow copy: nested arrays and records stay shared.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
		Proto:  r.Proto,
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// ErrorText renders records built by NewErrorRecord as "name: message".
func (r *Record) ErrorText() (string, bool) {
	name, ok1 := r.values["name"]
	msg, ok2 := r.values["message"]
	if !ok1 || !ok2 || name.Kind != KindString || msg.Kind != KindString {
		return "", false
	}
	return name.Str + ": " + msg.Str, true
}

// NativeFunc is a Go implementation of a callable value.
type NativeFunc func(this Value, args []Value) (Value, error)

// Function is a callable value. Script functions keep the environment
// they were defined in; natives carry a Go func instead.
type Function struct {
	Name   string
	Decl   *ast.FunctionLiteral
	Env    *Environment
	Arrow  bool
	Native NativeFunc

	// Class is set for class constructors. Methods become the Proto of
	// every instance.
	Class   *ast.ClassDeclaration
	Methods *Record
}

func NewNative(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Native: fn}
}

// NativeValue wraps fn as a function value.
func NativeValue(name string, fn NativeFunc) Value {
	return NewFunctionValue(NewNative(name, fn))
}
