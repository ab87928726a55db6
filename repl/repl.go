// Package repl is an interactive loop that parses each line with one of
// the built-in grammars and prints the result.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/dhamidi/parsnip/format"
	"github.com/dhamidi/parsnip/grammar"
	"github.com/dhamidi/parsnip/parse"
)

const (
	prompt      = ">> "
	historyName = ".parsnip_history"
	helpText    = `:grammar NAME  switch grammar
:grammars      list grammars
:format NAME   switch output format
:help          show this help
:quit          leave (also Ctrl+D)
`
)

var commands = []string{":grammar", ":grammars", ":format", ":help", ":quit"}

// Session holds the state of one interactive loop.
type Session struct {
	grammar grammar.Grammar
	format  string
}

// NewSession starts with grammar g and the tree output format.
func NewSession(g grammar.Grammar) *Session {
	return &Session{grammar: g, format: "tree"}
}

// Eval handles one line of input and writes the response to out. It
// reports whether the session should end.
func (s *Session) Eval(line string, out io.Writer) (quit bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false
	case trimmed == "exit" || trimmed == ":quit":
		return true
	case strings.HasPrefix(trimmed, ":"):
		s.command(trimmed, out)
		return false
	}

	var (
		v   any
		err error
	)
	if s.grammar.Eval != nil {
		v, err = s.grammar.Eval(line)
	} else {
		v, err = s.grammar.Parse(line)
	}
	if err != nil {
		var perr *parse.Error
		if errors.As(err, &perr) {
			fmt.Fprint(out, format.Diagnostic{Source: line, Err: perr})
		} else {
			fmt.Fprintf(out, "error: %s\n", err)
		}
		return false
	}
	if s.grammar.Eval != nil {
		fmt.Fprintln(out, v)
		return false
	}
	enc, err := format.New(s.format, out)
	if err == nil {
		err = enc.Encode(v)
	}
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
	}
	return false
}

func (s *Session) command(cmd string, out io.Writer) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":grammar":
		if arg == "" {
			fmt.Fprintln(out, s.grammar.Name)
			return
		}
		g, err := grammar.Lookup(arg)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			return
		}
		s.grammar = g
	case ":grammars":
		for _, g := range grammar.All() {
			fmt.Fprintf(out, "%-8s %s\n", g.Name, g.Description)
		}
	case ":format":
		if arg == "" {
			fmt.Fprintln(out, s.format)
			return
		}
		if _, err := format.New(arg, io.Discard); err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			return
		}
		s.format = arg
	case ":help":
		fmt.Fprint(out, helpText)
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", name)
	}
}

// complete offers commands, grammar names and format names.
func complete(line string) []string {
	var out []string
	add := func(prefix string, words []string) {
		for _, w := range words {
			if c := prefix + w; strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
	}
	switch {
	case strings.HasPrefix(line, ":grammar "):
		add(":grammar ", grammar.Names())
	case strings.HasPrefix(line, ":format "):
		add(":format ", format.Names())
	case strings.HasPrefix(line, ":"):
		add("", commands)
	}
	return out
}

// Run reads lines from the terminal until the session ends or input is
// closed. History is kept in the user's home directory when possible.
func Run(s *Session, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyFile := historyPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "parsnip %s grammar; :help for commands\n", s.grammar.Name)
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if s.Eval(input, out) {
			return nil
		}
	}
}

func historyPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, historyName)
	}
	return filepath.Join(os.TempDir(), historyName)
}
