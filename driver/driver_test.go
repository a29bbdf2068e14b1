package driver

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/example/gtscript/interpreter"
	"github.com/example/gtscript/runtime"
)

func file(src string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(src)}
}

func TestRunNormal(t *testing.T) {
	fsys := fstest.MapFS{"main.ts": file("let x = 2\nx * 21")}
	res, err := New(fsys).Run("main.ts")
	if err != nil {
		t.Fatal(err)
	}
	if res.Exit {
		t.Fatal("Exit set without a top-level return")
	}
	if res.Value.Num != 42 {
		t.Fatalf("value = %s", runtime.Inspect(res.Value))
	}
	if res.RunID.String() == "" {
		t.Fatal("missing run id")
	}
}

func TestRunTopLevelReturn(t *testing.T) {
	fsys := fstest.MapFS{"main.ts": file("return 3\nthrow \"unreachable\"")}
	res, err := New(fsys).Run("main.ts")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exit || res.Value.Num != 3 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunUncaught(t *testing.T) {
	fsys := fstest.MapFS{"main.ts": file(`throw "boom"`)}
	_, err := New(fsys).Run("main.ts")
	var ue *UncaughtError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UncaughtError, got %v", err)
	}
	if ue.Value.Str != "boom" || ue.Path != "main.ts" {
		t.Fatalf("uncaught = %+v", ue)
	}
	var te *interpreter.ThrowError
	if !errors.As(err, &te) {
		t.Fatal("UncaughtError should unwrap to ThrowError")
	}
	if !strings.Contains(err.Error(), "uncaught exception: boom") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestParseError(t *testing.T) {
	fsys := fstest.MapFS{"main.ts": file("let = 1")}
	_, err := New(fsys).Run("main.ts")
	if err == nil || !strings.Contains(err.Error(), "parse error at") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := New(fstest.MapFS{}).Run("nope.ts"); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestImports(t *testing.T) {
	fsys := fstest.MapFS{
		"main.ts": file(`import * as util from "util"
import * as again from "util.ts"
util.double(util.base) + again.base`),
		"util.ts": file(`export const base = 5
export function double(n) { return n * 2 }
const hidden = 1`),
	}
	res, err := New(fsys).Run("main.ts")
	if err != nil {
		t.Fatal(err)
	}
	if res.Value.Num != 15 {
		t.Fatalf("value = %s", runtime.Inspect(res.Value))
	}
}

func TestImportsEvaluateOnce(t *testing.T) {
	var out bytes.Buffer
	fsys := fstest.MapFS{
		"main.ts": file(`import * as a from "a"
import * as b from "b"
a.n + b.n`),
		"a.ts": file("import * as c from \"c\"\nexport const n = c.n"),
		"b.ts": file("import * as c from \"c\"\nexport const n = c.n"),
		"c.ts": file("fmt.println(\"loading c\")\nexport const n = 1"),
	}
	res, err := New(fsys, WithOutput(&out)).Run("main.ts")
	if err != nil {
		t.Fatal(err)
	}
	if res.Value.Num != 2 {
		t.Fatalf("value = %s", runtime.Inspect(res.Value))
	}
	if got := strings.Count(out.String(), "loading c"); got != 1 {
		t.Fatalf("c evaluated %d times", got)
	}
}

func TestImportRelativeToImporter(t *testing.T) {
	fsys := fstest.MapFS{
		"main.ts":       file("import * as lib from \"lib/index\"\nlib.v"),
		"lib/index.ts":  file("import * as h from \"helper\"\nexport const v = h.v + 1"),
		"lib/helper.gt": file("export const v = 1"),
	}
	res, err := New(fsys).Run("main.ts")
	if err != nil {
		t.Fatal(err)
	}
	if res.Value.Num != 2 {
		t.Fatalf("value = %s", runtime.Inspect(res.Value))
	}
}

func TestImportCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.ts": file("import * as b from \"b\"\nexport const x = 1"),
		"b.ts": file("import * as a from \"a\"\nexport const y = 1"),
	}
	_, err := New(fsys).Run("a.ts")
	var ue *UncaughtError
	if !errors.As(err, &ue) {
		t.Fatalf("expected uncaught cycle error, got %v", err)
	}
	if !strings.Contains(ue.Value.ToString(), "import cycle detected: a.ts -> b.ts -> a.ts") {
		t.Fatalf("message = %q", ue.Value.ToString())
	}
}

func TestImportNotFound(t *testing.T) {
	fsys := fstest.MapFS{"bad.ts": file(`import * as x from "x"`)}
	_, err := New(fsys).Run("bad.ts")
	var ue *UncaughtError
	if !errors.As(err, &ue) || !strings.Contains(ue.Value.ToString(), `ReferenceError: module "x" not found`) {
		t.Fatalf("expected module not found, got %v", err)
	}
}

func TestCallExport(t *testing.T) {
	fsys := fstest.MapFS{
		"t_test.ts": file(`function testOne() { return 1 }
function helper() {}
function testTwo() { throw "failed" }`),
	}
	p, err := New(fsys).Load("t_test.ts")
	if err != nil {
		t.Fatal(err)
	}
	names := p.Functions("test")
	if strings.Join(names, ",") != "testOne,testTwo" {
		t.Fatalf("functions = %v", names)
	}
	v, err := p.CallExport("testOne")
	if err != nil || v.Num != 1 {
		t.Fatalf("testOne = %s, %v", runtime.Inspect(v), err)
	}
	_, err = p.CallExport("testTwo")
	var ue *UncaughtError
	if !errors.As(err, &ue) || ue.Value.Str != "failed" {
		t.Fatalf("testTwo err = %v", err)
	}
	if _, err := p.CallExport("absent"); err == nil {
		t.Fatal("expected error for a missing function")
	}
}

func TestMaxCallDepthFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 10
	fsys := fstest.MapFS{"main.ts": file(`function deep(n) { return n == 0 ? 0 : deep(n - 1) }
deep(20)`)}
	_, err := New(fsys, WithConfig(cfg)).Run("main.ts")
	var ue *UncaughtError
	if !errors.As(err, &ue) || !strings.Contains(ue.Value.ToString(), "RangeError") {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestSession(t *testing.T) {
	fsys := fstest.MapFS{"m.ts": file("export const k = 7")}
	s := New(fsys).NewSession()
	if _, err := s.Eval(`import * as m from "m"`); err != nil {
		t.Fatal(err)
	}
	v, err := s.Eval("m.k")
	if err != nil || v.Num != 7 {
		t.Fatalf("m.k = %s, %v", runtime.Inspect(v), err)
	}
}
