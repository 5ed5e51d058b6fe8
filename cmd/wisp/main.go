// Command wisp is the reference CLI: run a module, evaluate a bare
// expression, or drop into a REPL. Subcommand dispatch and manifest
// discovery follow the teacher's cmd/able/main.go; the REPL loop follows
// launix-de-memcp's scm.Repl.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/wisplang/wisp/pkg/ast"
	"github.com/wisplang/wisp/pkg/driver"
	"github.com/wisplang/wisp/pkg/evaluator"
	"github.com/wisplang/wisp/pkg/loader"
)

const cliVersion = "wisp-cli 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Println(cliVersion)
		return 0
	case "run":
		return runFile(args[1:], false)
	case "trace":
		return runFile(args[1:], true)
	case "eval":
		return runEval(args[1:])
	case "repl":
		return runRepl()
	default:
		return runFile(args, false)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  wisp run <file.wisp>")
	fmt.Fprintln(os.Stderr, "  wisp trace <file.wisp>")
	fmt.Fprintln(os.Stderr, "  wisp eval <expression>")
	fmt.Fprintln(os.Stderr, "  wisp repl")
}

func runFile(args []string, trace bool) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "wisp run requires exactly one source file")
		return 1
	}
	entryPath := args[0]

	manifest, err := findAndLoadManifest(filepath.Dir(entryPath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cacheDir, err := wispHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve cache directory: %v\n", err)
		return 1
	}

	env, err := loader.Load(entryPath, manifest, cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", entryPath, err)
		return 1
	}

	entryModule := env.CurrentModule()
	entryExpr := ast.NewIdentifier(ast.Position{}, entryModule, "main")

	cfg := evaluator.NewConfig(evaluator.NewKernelRegistry())
	cfg.Trace = trace
	v, evalErr, tree := evaluator.Eval(entryExpr, env, cfg)
	if trace {
		fmt.Print(formatCallTree(tree, 0))
	}
	if evalErr != nil {
		fmt.Fprintln(os.Stderr, evalErr.Render())
		return 1
	}
	fmt.Println(formatValue(v))
	return 0
}

func runEval(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "wisp eval requires exactly one expression argument")
		return 1
	}
	v, err := driver.Eval(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	fmt.Println(formatValue(v))
	return 0
}

const (
	newprompt  = "\033[32mwisp>\033[0m "
	contprompt = "\033[32m  ..>\033[0m "
)

func runRepl() int {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       filepath.Join(os.TempDir(), ".wisp-history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer l.Close()

	pending := ""
	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if pending == "" {
				break
			}
			pending = ""
			l.SetPrompt(newprompt)
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		source := pending + line
		if source == "" {
			continue
		}

		v, evalErr := driver.Eval(source)
		if evalErr != nil {
			if evalErr.Parsing != nil && looksIncomplete(evalErr.Parsing.Msg) {
				pending = source + "\n"
				l.SetPrompt(contprompt)
				continue
			}
			fmt.Fprintln(os.Stderr, evalErr.Error())
			pending = ""
			l.SetPrompt(newprompt)
			continue
		}
		fmt.Println("=", formatValue(v))
		pending = ""
		l.SetPrompt(newprompt)
	}
	return 0
}

// looksIncomplete reports whether a parse failure looks like it ran off
// the end of the input rather than hitting a genuine syntax error, so the
// REPL should keep reading lines instead of reporting it.
func looksIncomplete(msg string) bool {
	return strings.Contains(msg, `got ""`)
}

func wispHome() (string, error) {
	if home := os.Getenv("WISP_HOME"); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, ".wisp"), nil
}

func findAndLoadManifest(start string) (*loader.Manifest, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, "wisp.yml")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return loader.LoadManifest(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, os.ErrNotExist
		}
		dir = parent
	}
}
