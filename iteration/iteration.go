// Package iteration turns loop sources into the sequences visited by
// for-in and for-of.
package iteration

import (
	"strconv"

	"github.com/example/gtscript/runtime"
)

// ForInKeys returns the keys a for-in loop visits. The result is taken
// once at loop entry.
//
// Array holes are skipped while explicit null and undefined elements are
// kept. Records yield their keys in insertion order. null and undefined
// produce no keys.
func ForInKeys(v runtime.Value) ([]string, error) {
	switch v.Kind {
	case runtime.KindUndefined, runtime.KindNull:
		return nil, nil
	case runtime.KindArray:
		keys := make([]string, 0, v.Arr.Len())
		for i := 0; i < v.Arr.Len(); i++ {
			if v.Arr.Has(i) {
				keys = append(keys, strconv.Itoa(i))
			}
		}
		return keys, nil
	case runtime.KindRecord:
		return v.Rec.Keys(), nil
	case runtime.KindString:
		keys := make([]string, len(v.Str))
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys, nil
	}
	return nil, runtime.Errorf(runtime.TypeError, "cannot enumerate keys of %s", v.TypeName())
}

// Cursor walks a for-of source.
type Cursor interface {
	// Next returns the following element, or false once exhausted.
	Next() (runtime.Value, bool)
}

// ForOf returns a cursor over v. Arrays are read live: the length and the
// element are fetched on every step, so pushes ahead of the cursor are
// visited and removals shift later reads. Holes read as undefined.
func ForOf(v runtime.Value) (Cursor, error) {
	switch v.Kind {
	case runtime.KindUndefined, runtime.KindNull:
		return empty{}, nil
	case runtime.KindArray:
		return &arrayCursor{arr: v.Arr}, nil
	case runtime.KindString:
		return &byteCursor{s: v.Str}, nil
	}
	return nil, runtime.Errorf(runtime.TypeError, "%s is not iterable", v.TypeName())
}

type empty struct{}

func (empty) Next() (runtime.Value, bool) { return runtime.Undefined, false }

type arrayCursor struct {
	arr *runtime.Array
	pos int
}

func (c *arrayCursor) Next() (runtime.Value, bool) {
	if c.pos >= c.arr.Len() {
		return runtime.Undefined, false
	}
	v := c.arr.Get(c.pos)
	c.pos++
	return v, true
}

// byteCursor yields bytes as numbers, the same values s[i] produces.
type byteCursor struct {
	s   string
	pos int
}

func (c *byteCursor) Next() (runtime.Value, bool) {
	if c.pos >= len(c.s) {
		return runtime.Undefined, false
	}
	b := c.s[c.pos]
	c.pos++
	return runtime.NewInt(int(b)), true
}

// Collect drains a cursor. Used by spread, which snapshots its source.
func Collect(c Cursor) []runtime.Value {
	var out []runtime.Value
	for {
		v, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
