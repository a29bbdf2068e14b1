package builtins

import (
	"errors"
	"testing"

	"github.com/example/gtscript/runtime"
)

func makeRecord(pairs ...any) runtime.Value {
	r := runtime.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(runtime.Value))
	}
	return runtime.NewRecordValue(r)
}

func expectKind(t *testing.T, err error, kind runtime.ErrorKind) {
	t.Helper()
	var rerr *runtime.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	if rerr.Kind != kind {
		t.Errorf("expected %s, got %s", kind, rerr.Kind)
	}
}

func TestMapLen(t *testing.T) {
	m := makeRecord("a", runtime.NewInt(1), "b", runtime.NewInt(2))
	result, err := mapLen(runtime.Undefined, []runtime.Value{m})
	if err != nil {
		t.Fatal(err)
	}
	if result.Num != 2 {
		t.Errorf("expected 2, got %v", result.Num)
	}
}

func TestMapRejectsNonRecords(t *testing.T) {
	arr := runtime.NewArrayValue(runtime.NewArray())
	_, err := mapLen(runtime.Undefined, []runtime.Value{arr})
	expectKind(t, err, runtime.TypeError)
	if err.Error() != "TypeError: expected a map or object, got array" {
		t.Errorf("unexpected message %q", err)
	}
	_, err = mapClone(runtime.Undefined, nil)
	expectKind(t, err, runtime.TypeError)
}

func TestMapCloneIsShallow(t *testing.T) {
	inner := makeRecord("bar", runtime.NewInt(3))
	m := makeRecord("foo", runtime.NewInt(1), "nested", inner)
	result, _ := mapClone(runtime.Undefined, []runtime.Value{m})

	result.Rec.Set("foo", runtime.NewInt(2))
	if v, _ := m.Rec.Get("foo"); v.Num != 1 {
		t.Errorf("clone shares top-level storage: foo = %v", v.Num)
	}
	nested, _ := result.Rec.Get("nested")
	if nested.Rec != inner.Rec {
		t.Error("expected nested record to be shared")
	}
}

func TestMapDeleteKey(t *testing.T) {
	m := makeRecord("foo", runtime.NewInt(1), "bar", runtime.NewInt(2))
	mapDeleteKey(runtime.Undefined, []runtime.Value{m, runtime.NewString("foo")})
	if m.Rec.Has("foo") {
		t.Error("foo should be deleted")
	}
	// missing key is a no-op
	if _, err := mapDeleteKey(runtime.Undefined, []runtime.Value{m, runtime.NewString("nope")}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if m.Rec.Len() != 1 {
		t.Errorf("expected 1 key, got %d", m.Rec.Len())
	}
}

func TestMapDeleteKeys(t *testing.T) {
	m := makeRecord("a", runtime.NewInt(1), "b", runtime.NewInt(2), "c", runtime.NewInt(3))
	keys := runtime.NewArrayValue(runtime.NewArray(runtime.NewString("a"), runtime.NewString("c")))
	mapDeleteKeys(runtime.Undefined, []runtime.Value{m, keys})
	if got := m.Rec.Keys(); len(got) != 1 || got[0] != "b" {
		t.Errorf("expected [b], got %v", got)
	}
}

func TestMapKeysAndValuesKeepOrder(t *testing.T) {
	m := makeRecord("z", runtime.NewInt(1), "a", runtime.NewInt(2))
	keys, _ := mapKeys(runtime.Undefined, []runtime.Value{m})
	if got := keys.ToString(); got != "z,a" {
		t.Errorf("keys: expected z,a got %s", got)
	}
	values, _ := mapValues(runtime.Undefined, []runtime.Value{m})
	if got := values.ToString(); got != "1,2" {
		t.Errorf("values: expected 1,2 got %s", got)
	}
}

func TestMapHasKeyAndIsMap(t *testing.T) {
	m := makeRecord("0", runtime.NewInt(0))
	has, _ := mapHasKey(runtime.Undefined, []runtime.Value{m, runtime.NewInt(0)})
	if !has.Bool {
		t.Error("hasKey(0) should match the string key \"0\"")
	}
	is, _ := mapIsMap(runtime.Undefined, []runtime.Value{runtime.NewString("x")})
	if is.Bool {
		t.Error("isMap on a string should be false")
	}
}
