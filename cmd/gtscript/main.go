package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/example/gtscript/driver"
	"github.com/example/gtscript/interpreter"
	"github.com/example/gtscript/lexer"
	"github.com/example/gtscript/parser"
	"github.com/example/gtscript/runtime"
	"github.com/example/gtscript/token"
)

const (
	historyFile = ".gtscript_history"
	promptMain  = "> "
	promptCont  = ". "
)

func main() {
	os.Exit(run())
}

func run() int {
	evalCode := flag.String("e", "", "evaluate inline source")
	dumpAST := flag.Bool("ast", false, "dump the AST as JSON")
	configPath := flag.String("config", driver.ConfigFile, "path to the config file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gtscript [options] [file.ts]\n")
		fmt.Fprintf(os.Stderr, "       gtscript -e \"code\"\n")
		fmt.Fprintf(os.Stderr, "With no file and no entry in the config, runs stdin or starts a REPL.\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := driver.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	level := cfg.Level()
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := newLogger(level)

	if *dumpAST {
		return dump(*evalCode)
	}

	root, entry := cfg.Root, cfg.Entry
	if flag.NArg() > 0 {
		root, entry, err = locate(cfg.Root, flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	d := driver.New(os.DirFS(root),
		driver.WithConfig(cfg),
		driver.WithLogger(log),
		driver.WithOutput(os.Stdout),
	)

	switch {
	case *evalCode != "":
		p, err := d.LoadSource("<eval>", *evalCode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return report(p.Result())
	case entry != "":
		res, err := d.Run(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return report(res)
	case !isatty.IsTerminal(os.Stdin.Fd()):
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			return 1
		}
		p, err := d.LoadSource("<stdin>", string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return report(p.Result())
	default:
		return repl(d.NewSession())
	}
}

func newLogger(level zerolog.Level) zerolog.Logger {
	fd := os.Stderr.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !color}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// locate splits file into a root directory and a slash-separated path
// inside it. Files outside root are run from their own directory.
func locate(root, file string) (string, string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", "", err
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", "", err
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Dir(absFile), filepath.Base(absFile), nil
	}
	return absRoot, filepath.ToSlash(rel), nil
}

// report prints the program's value and returns the process exit code. A
// top-level return sets the exit code.
func report(res *driver.Result) int {
	if res.Exit {
		return int(runtime.ToInt32(res.Value))
	}
	if res.Value.Kind != runtime.KindUndefined {
		fmt.Println(runtime.Inspect(res.Value))
	}
	return 0
}

func dump(inline string) int {
	source := inline
	if source == "" {
		if flag.NArg() == 0 {
			flag.Usage()
			return 1
		}
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			return 1
		}
		source = string(data)
	}

	program, errs := parser.New(source).ParseProgram()
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(program); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding AST: %v\n", err)
		return 1
	}
	return 0
}

func repl(session *interpreter.Interpreter) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		switch trimmed {
		case "":
			continue
		case ":quit", ":q":
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := session.Eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			continue
		}
		if v.Kind != runtime.KindUndefined {
			fmt.Println(runtime.Inspect(v))
		}
	}
}

// readByParseProbe keeps reading lines while the input so far has
// unclosed brackets.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

func incomplete(src string) bool {
	depth := 0
	for _, tok := range lexer.Tokenize(src) {
		switch tok.Type {
		case token.LeftParen, token.LeftBrace, token.LeftBracket:
			depth++
		case token.RightParen, token.RightBrace, token.RightBracket:
			depth--
		case token.Illegal:
			return tok.Literal == "unterminated string"
		}
	}
	return depth > 0
}
