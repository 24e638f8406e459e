// Package server implements the line protocol in front of the engine: one command per line in,
// NULL / integer / NO TRANSACTION diagnostics out. It is a thin adapter; all semantics live in
// the engine.
package server

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Engine is the command surface the session drives. *engine.Engine satisfies it.
type Engine interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Unset(key string)
	NumEqualTo(value string) int64
	Begin()
	Rollback() bool
	Commit() bool
}

// Session runs the protocol for the single logical client over an output writer. Commands are
// fed either from a reader (Run) or an interactive prompt (RunInteractive).
type Session struct {
	engine Engine
	out    io.Writer
}

func NewSession(engine Engine, out io.Writer) *Session {
	return &Session{engine: engine, out: out}
}

// Run executes commands line by line until END or end-of-input; both terminate identically.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if done := s.Exec(scanner.Text()); done {
			return nil
		}
	}
	return scanner.Err()
}

// RunInteractive executes commands from a readline prompt until END, ^C, or ^D.
func (s *Session) RunInteractive(prompt, historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "^D",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			continue
		}
		if done := s.Exec(line); done {
			return nil
		}
	}
}

// Exec executes one input line and reports whether the session should end. Malformed lines are
// diagnosed and otherwise ignored; blank lines do nothing.
func (s *Session) Exec(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		log.Debug("rejected input line", zap.String("line", line))
		fmt.Fprintln(s.out, "Invalid method or number of arguments")
		return false
	}

	switch c := cmd.(type) {
	case nil:
	case Get:
		if value, ok := s.engine.Get(c.Key); ok {
			fmt.Fprintln(s.out, value)
		} else {
			fmt.Fprintln(s.out, "NULL")
		}
	case Set:
		s.engine.Set(c.Key, c.Value)
	case Unset:
		s.engine.Unset(c.Key)
	case NumEqualTo:
		fmt.Fprintln(s.out, s.engine.NumEqualTo(c.Value))
	case Begin:
		s.engine.Begin()
	case Rollback:
		if !s.engine.Rollback() {
			fmt.Fprintln(s.out, "NO TRANSACTION")
		}
	case Commit:
		if !s.engine.Commit() {
			fmt.Fprintln(s.out, "NO TRANSACTION")
		}
	case End:
		return true
	}
	return false
}
