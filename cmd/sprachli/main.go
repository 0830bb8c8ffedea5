package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	sprachli "github.com/SillyFreak/sprachli"
)

const (
	appName     = "sprachli"
	historyFile = ".sprachli_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("sprachli %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", sprachli.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "parse":
		os.Exit(cmdParse(os.Args[2:]))
	case "tokens":
		os.Exit(cmdTokens(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(sprachli.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`sprachli %s (built %s)

Usage:
  %s parse <file.spr>      Parse a source file and print its AST.
  %s tokens <file.spr>     Print the token stream of a source file.
  %s repl                  Start the parse REPL.
  %s version               Print the compiled version

`, sprachli.Version, sprachli.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// parse
// -----------------------------------------------------------------------------

func cmdParse(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s parse <file.spr>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ast, perr := sprachli.Parse(string(src))
	if perr != nil {
		perr = sprachli.WrapErrorWithName(perr, file, string(src))
		fmt.Fprintln(os.Stderr, red(perr.Error()))
		return 1
	}

	for _, d := range ast.Declarations {
		fmt.Println(d.Sexpr())
	}
	return 0
}

// -----------------------------------------------------------------------------
// tokens
// -----------------------------------------------------------------------------

func cmdTokens(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tokens <file.spr>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	toks, lerr := sprachli.NewLexer(string(src)).Scan()
	if lerr != nil {
		lerr = sprachli.WrapErrorWithName(lerr, file, string(src))
		fmt.Fprintln(os.Stderr, red(lerr.Error()))
		return 1
	}

	for _, t := range toks {
		if t.Literal != nil {
			fmt.Printf("%4d:%-3d %-12s %q (%v)\n", t.Line, t.Col+1, t.Type, t.Lexeme, t.Literal)
			continue
		}
		fmt.Printf("%4d:%-3d %-12s %q\n", t.Line, t.Col+1, t.Type, t.Lexeme)
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		blk, err := sprachli.ParseInteractive(code)
		if err != nil {
			err = sprachli.WrapErrorWithSource(err, code)
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		for _, s := range blk.Statements {
			fmt.Println(blue(s.Sexpr()))
		}
		if blk.Expression != nil {
			fmt.Println(blue(blk.Expression.Sexpr()))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe reads one logical input: it keeps prompting with the
// continuation prompt while the accumulated text parses as incomplete.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := sprachli.ParseInteractive(src)
		if perr == nil {
			return src, true
		}
		if sprachli.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
