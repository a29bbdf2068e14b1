package iteration

import (
	"errors"
	"testing"

	"github.com/example/gtscript/runtime"
)

// sparse builds [1, null, 3, <hole>, 4].
func sparse() runtime.Value {
	a := runtime.NewArray(runtime.NewNumber(1), runtime.Null, runtime.NewNumber(3))
	a.Set(4, runtime.NewNumber(4))
	return runtime.NewArrayValue(a)
}

func TestForInSkipsHoles(t *testing.T) {
	keys, err := ForInKeys(sparse())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "1", "2", "4"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestForInRecordOrder(t *testing.T) {
	r := runtime.NewRecord()
	r.Set("b", runtime.True)
	r.Set("a", runtime.True)
	r.Set("c", runtime.True)
	keys, _ := ForInKeys(runtime.NewRecordValue(r))
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("keys = %v", keys)
	}
}

func TestForInNullish(t *testing.T) {
	for _, v := range []runtime.Value{runtime.Null, runtime.Undefined} {
		keys, err := ForInKeys(v)
		if err != nil || len(keys) != 0 {
			t.Errorf("ForInKeys(%s) = %v, %v", v.TypeName(), keys, err)
		}
	}
	_, err := ForInKeys(runtime.NewNumber(1))
	var rerr *runtime.Error
	if !errors.As(err, &rerr) || rerr.Kind != runtime.TypeError {
		t.Errorf("number source: got %v", err)
	}
}

func TestForOfSurfacesHoles(t *testing.T) {
	c, err := ForOf(sparse())
	if err != nil {
		t.Fatal(err)
	}
	vals := Collect(c)
	if len(vals) != 5 {
		t.Fatalf("got %d values, want 5", len(vals))
	}
	if vals[3].Kind != runtime.KindUndefined {
		t.Errorf("hole should be undefined, got %s", vals[3].TypeName())
	}
	if vals[1].Kind != runtime.KindNull {
		t.Errorf("explicit null lost, got %s", vals[1].TypeName())
	}
}

func TestForOfIsLive(t *testing.T) {
	arr := runtime.NewArray(runtime.NewNumber(0))
	c, _ := ForOf(runtime.NewArrayValue(arr))

	n := 0
	for {
		_, ok := c.Next()
		if !ok {
			break
		}
		n++
		if n < 3 {
			arr.Push(runtime.NewNumber(float64(n)))
		}
	}
	if n != 3 {
		t.Errorf("visited %d elements, want 3", n)
	}

	arr = runtime.NewArray(runtime.NewNumber(0), runtime.NewNumber(1))
	c, _ = ForOf(runtime.NewArrayValue(arr))
	n = 0
	for {
		if _, ok := c.Next(); !ok {
			break
		}
		arr.Remove(0)
		n++
	}
	if n != 1 {
		t.Errorf("removal during iteration: visited %d, want 1", n)
	}
}

func TestForOfNullishAndBadSource(t *testing.T) {
	c, err := ForOf(runtime.Null)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Next(); ok {
		t.Error("null source should be empty")
	}
	if _, err := ForOf(runtime.NewRecordValue(runtime.NewRecord())); err == nil {
		t.Error("record should not be iterable")
	}
}

func TestForOfString(t *testing.T) {
	c, _ := ForOf(runtime.NewString("é"))
	vals := Collect(c)
	if len(vals) != 2 || vals[0].Num != 0xC3 || vals[1].Num != 0xA9 {
		t.Errorf("got %v", vals)
	}
}
