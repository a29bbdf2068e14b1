// Package testrunner runs the script test corpus: every top-level test*
// function of every *_test.ts file, each in a fresh program instance.
package testrunner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/gtscript/driver"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	File    string
	Name    string
	Result  Result
	Message string
	Elapsed time.Duration
}

// ID is "file:function".
func (tr TestResult) ID() string {
	if tr.Name == "" {
		return tr.File
	}
	return tr.File + ":" + tr.Name
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// OK reports whether nothing failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errors == 0
}

const (
	// TestPrefix marks the functions that are run as tests.
	TestPrefix = "test"

	DefaultTimeout = 5 * time.Second
)

type Config struct {
	// Dir is the corpus directory, used when FS is nil.
	Dir string
	FS  fs.FS

	// Filter keeps only tests whose ID contains it. It overrides the
	// manifest filter.
	Filter  string
	Timeout time.Duration
	Verbose bool

	// Out receives per-test lines when Verbose is set.
	Out    io.Writer
	Logger zerolog.Logger

	// Driver is the host configuration (call depth, module extensions).
	Driver *driver.Config
}

// Run discovers and runs the corpus, returning results and a summary.
func Run(cfg Config) ([]TestResult, Summary, error) {
	fsys := cfg.FS
	if fsys == nil {
		fsys = os.DirFS(cfg.Dir)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Driver == nil {
		cfg.Driver = driver.DefaultConfig()
	}

	manifest, err := LoadManifest(fsys, ManifestFile)
	if err != nil {
		return nil, Summary{}, err
	}
	filter := cfg.Filter
	if filter == "" {
		filter = manifest.Filter
	}

	files, err := discover(fsys)
	if err != nil {
		return nil, Summary{}, err
	}

	d := driver.New(fsys, driver.WithConfig(cfg.Driver), driver.WithLogger(cfg.Logger))
	start := time.Now()
	var results []TestResult
	var summary Summary

	for _, file := range files {
		for _, tr := range runFile(d, file, filter, manifest, cfg.Timeout) {
			results = append(results, tr)
			summary.Total++
			switch tr.Result {
			case Pass:
				summary.Passed++
			case Fail:
				summary.Failed++
			case Skip:
				summary.Skipped++
			case Error:
				summary.Errors++
			}

			cfg.Logger.Debug().Str("test", tr.ID()).Stringer("result", tr.Result).Dur("elapsed", tr.Elapsed).Msg("test done")
			if cfg.Verbose {
				msg := ""
				if tr.Message != "" {
					msg = " " + tr.Message
				}
				fmt.Fprintf(cfg.Out, "%s %s%s\n", tr.Result, tr.ID(), msg)
			}
		}
	}

	summary.Elapsed = time.Since(start)
	return results, summary, nil
}

// discover lists *_test.ts files in lexical order.
func discover(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(path.Base(p), "_test.ts") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering tests: %w", err)
	}
	return files, nil
}

// runFile loads file once to find its tests, then runs each test against
// a freshly loaded instance.
func runFile(d *driver.Driver, file, filter string, manifest *Manifest, timeout time.Duration) []TestResult {
	probe, err := d.Load(file)
	if err != nil {
		return []TestResult{{File: file, Result: Error, Message: "load error: " + err.Error()}}
	}

	var results []TestResult
	for _, name := range probe.Functions(TestPrefix) {
		tr := TestResult{File: file, Name: name}
		if filter != "" && !strings.Contains(tr.ID(), filter) {
			continue
		}
		if reason, ok := manifest.skipReason(file, name); ok {
			tr.Result, tr.Message = Skip, reason
			results = append(results, tr)
			continue
		}
		results = append(results, runSingleTest(d, tr, timeout))
	}
	return results
}

type callResult struct {
	err error
}

func runSingleTest(d *driver.Driver, tr TestResult, timeout time.Duration) TestResult {
	start := time.Now()

	resultCh := make(chan callResult, 1)
	go func() {
		p, err := d.Load(tr.File)
		if err == nil {
			_, err = p.CallExport(tr.Name)
		}
		resultCh <- callResult{err: err}
	}()

	var res callResult
	select {
	case res = <-resultCh:
	case <-time.After(timeout):
		tr.Result = Error
		tr.Message = fmt.Sprintf("timeout (%s)", timeout)
		tr.Elapsed = time.Since(start)
		return tr
	}
	tr.Elapsed = time.Since(start)

	var ue *driver.UncaughtError
	switch {
	case res.err == nil:
		tr.Result = Pass
	case errors.As(res.err, &ue):
		tr.Result = Fail
		tr.Message = ue.Value.ToString()
	default:
		tr.Result = Error
		tr.Message = res.err.Error()
	}
	return tr
}
