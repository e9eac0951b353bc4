// Package repl implements an interactive read-eval-print loop over an
// Evaluator: read one datum at a time with package reader, evaluate it,
// print the result with package lprint. Meta-commands (",load file",
// ",quit", ",exit") are prefixed with a comma and tokenized with
// github.com/google/shlex, the same library shell.Cmd's
// shellProgAndArgs uses to split a $SHELL string into a program plus
// its arguments — here splitting a meta-command line into a verb plus
// its (possibly quoted) arguments.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"

	"github.com/akasaka-miraina/lambdust-sub003/internal/eval"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lprint"
	"github.com/akasaka-miraina/lambdust-sub003/internal/reader"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Session is one REPL instance: an Evaluator plus its I/O streams.
type Session struct {
	Evaluator *eval.Evaluator
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Prompt    string

	quit bool
}

// New returns a Session ready to run, defaulting to stdin/stdout/stderr.
func New(ev *eval.Evaluator) *Session {
	return &Session{Evaluator: ev, In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Prompt: "lambdust> "}
}

// Run drives the loop until end of input or a ,quit meta-command.
func (s *Session) Run() error {
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var buf strings.Builder

	for !s.quit {
		fmt.Fprint(s.Out, s.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			return scanner.Err()
		}
		line := scanner.Text()

		if buf.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, ",") {
				s.runMeta(trimmed)
				continue
			}
			if trimmed == "" {
				continue
			}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')

		datums, err := reader.ReadAll(buf.String())
		if err != nil {
			// Incomplete input (e.g. an unterminated list) is not
			// distinguishable from a genuine syntax error by this
			// reader, so a read failure simply keeps accumulating
			// lines. Meta-commands are only recognized while the
			// buffer is empty, so nothing clears a stuck buffer.
			continue
		}
		buf.Reset()
		s.evalAndPrint(datums)
	}
	return nil
}

func (s *Session) evalAndPrint(datums []value.Value) {
	for _, d := range datums {
		expr, err := reader.FromDatum(d)
		if err != nil {
			fmt.Fprintf(s.Err, "read error: %v\n", err)
			continue
		}
		result, err := s.Evaluator.Eval(expr, s.Evaluator.Global())
		if err != nil {
			fmt.Fprintf(s.Err, "error: %v\n", err)
			continue
		}
		if _, isUnspecified := result.(value.Unspecified); isUnspecified {
			continue
		}
		fmt.Fprintln(s.Out, lprint.Write(result))
	}
}

func (s *Session) runMeta(line string) {
	args, err := shlex.Split(strings.TrimPrefix(line, ","))
	if err != nil || len(args) == 0 {
		fmt.Fprintf(s.Err, "meta-command: %v\n", err)
		return
	}
	switch args[0] {
	case "quit", "exit":
		s.quit = true
	case "load":
		for _, path := range args[1:] {
			s.loadFile(path)
		}
	default:
		fmt.Fprintf(s.Err, "unknown meta-command: ,%s\n", args[0])
	}
}

func (s *Session) loadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(s.Err, "load %q: %v\n", path, err)
		return
	}
	datums, err := reader.ReadAll(string(data))
	if err != nil {
		fmt.Fprintf(s.Err, "load %q: %v\n", path, err)
		return
	}
	s.evalAndPrint(datums)
}
