package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aki/interpreter-go/pkg/interpreter"
	"aki/interpreter-go/pkg/lexer"
	"aki/interpreter-go/pkg/parser"
	"aki/interpreter-go/pkg/runtime"
	"aki/interpreter-go/pkg/stdlib"

	"github.com/peterh/liner"
)

const (
	historyFile = ".aki_history"
	promptMain  = "aki> "
	promptCont  = "...> "
)

const replHelpText = `Commands:
  :help           show this help
  :quit, :exit    leave the REPL
  :load <file>    evaluate a source file in this session
  :reset          discard all session state
`

func runREPL() int {
	fmt.Printf("%s (:help for commands, :quit to leave)\n", cliToolVersion)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	builtins := stdlib.New()
	interp := interpreter.New(builtins)
	interp.SetAutoRunMain(false)
	ln.SetCompleter(makeCompleter(builtins, interp))

	for {
		// Accumulate possibly-multiline input until the parser stops
		// reporting a truncated program.
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if done := handleReplCommand(interp, trimmed); done {
				break
			}
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			continue
		}

		value, err := executeSource(code, interp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else if value != nil && value.Kind() != runtime.KindUnit {
			fmt.Printf("=> %s\n", runtime.Format(value))
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

func handleReplCommand(interp *interpreter.Interpreter, line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(replHelpText)

	case ":quit", ":exit":
		return true

	case ":reset":
		interp.Reset()
		fmt.Println("session reset.")

	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		path := fields[1]
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("cannot read %s: %v\n", path, err)
			return false
		}
		value, err := executeSource(string(src), interp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else if value != nil && value.Kind() != runtime.KindUnit {
			fmt.Printf("=> %s\n", runtime.Format(value))
		}

	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

// readByParseProbe reads lines until the current buffer parses, or until
// the parse error is something other than running out of tokens.
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
			// Ctrl+C drops the pending buffer.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		tokens, lerr := lexer.Scan(src)
		if lerr != nil {
			return src, true
		}
		_, perr := parser.New(tokens).Parse()
		if perr == nil {
			return src, true
		}
		if parser.IsUnexpectedEOF(perr) {
			continue
		}
		// A real syntax error; hand the buffer back for reporting.
		return src, true
	}
}

func makeCompleter(builtins *stdlib.Table, interp *interpreter.Interpreter) liner.Completer {
	return func(line string) []string {
		start := len(line)
		for start > 0 && isIdentByte(line[start-1]) {
			start--
		}
		prefix := line[start:]
		if prefix == "" {
			return nil
		}
		head := line[:start]

		candidates := append(builtins.Names(), interp.GlobalEnvironment().Keys()...)
		var out []string
		for _, name := range candidates {
			if strings.HasPrefix(name, prefix) {
				out = append(out, head+name)
			}
		}
		return out
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
