package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/example/gtscript/driver"
	"github.com/example/gtscript/testrunner"
)

func main() {
	dir := flag.String("dir", "testdata/corpus", "path to the test corpus")
	filter := flag.String("filter", "", "only run tests whose file:function contains this")
	timeout := flag.Duration("timeout", testrunner.DefaultTimeout, "per-test timeout")
	configPath := flag.String("config", driver.ConfigFile, "path to the config file")
	verbose := flag.Bool("v", false, "verbose output (print each test result)")
	flag.Parse()

	if _, err := os.Stat(*dir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: corpus directory not found at %s\n", *dir)
		os.Exit(1)
	}

	dcfg, err := driver.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fd := os.Stderr.Fd()
	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd),
		TimeFormat: time.Kitchen,
	}
	log := zerolog.New(out).Level(dcfg.Level()).With().Timestamp().Logger()

	cfg := testrunner.Config{
		Dir:     *dir,
		Filter:  *filter,
		Timeout: *timeout,
		Verbose: *verbose,
		Out:     os.Stdout,
		Logger:  log,
		Driver:  dcfg,
	}

	results, summary, err := testrunner.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Non-verbose runs only list what did not pass.
	if !*verbose {
		for _, r := range results {
			if r.Result == testrunner.Pass {
				continue
			}
			msg := ""
			if r.Message != "" {
				msg = " " + r.Message
			}
			fmt.Printf("%s %s%s\n", r.Result, r.ID(), msg)
		}
	}

	fmt.Println()
	fmt.Println("=== Corpus Summary ===")
	fmt.Printf("Total:   %d\n", summary.Total)
	fmt.Printf("Passed:  %d\n", summary.Passed)
	fmt.Printf("Failed:  %d\n", summary.Failed)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Printf("Errors:  %d\n", summary.Errors)
	if run := summary.Total - summary.Skipped; run > 0 {
		fmt.Printf("Pass rate: %.1f%% (%d/%d excluding skipped)\n",
			float64(summary.Passed)/float64(run)*100, summary.Passed, run)
	}
	fmt.Printf("Elapsed: %s\n", summary.Elapsed)

	if !summary.OK() {
		os.Exit(1)
	}
}
