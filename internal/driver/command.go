// Package driver runs secv8 command streams against a sequence engine.
//
// The input starts with the command count n and a flag that is read and ignored,
// followed by n commands:
//
//	I k e   insert e at rank k
//	A k     answer the element at rank k
//	R l r   reverse ranks l through r
//	D l r   erase ranks l through r
package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Op is the letter of a command.
type Op byte

// Supported operations.
const (
	OpInsert  Op = 'I'
	OpAsk     Op = 'A'
	OpReverse Op = 'R'
	OpErase   Op = 'D'
)

func (o Op) arity() int {
	switch o {
	case OpInsert, OpReverse, OpErase:
		return 2
	case OpAsk:
		return 1
	}
	return -1
}

func (o Op) String() string {
	return string(o)
}

// Command is one parsed command. B is unused by OpAsk.
type Command struct {
	Op   Op
	A, B int
}

func (c Command) String() string {
	if c.Op == OpAsk {
		return fmt.Sprintf("%v %d", c.Op, c.A)
	}
	return fmt.Sprintf("%v %d %d", c.Op, c.A, c.B)
}

var (
	// ErrMalformed reports input that doesn't follow the command grammar.
	ErrMalformed = errors.New("malformed input")
	// ErrOutOfRange reports a command addressing ranks that don't exist.
	ErrOutOfRange = errors.New("rank out of range")
)

// CommandError locates a failure at the Index-th command, starting from 1. Index
// 0 is the header line.
type CommandError struct {
	Index int
	Token string
	Err   error
}

func (e *CommandError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("command %d at %q: %v", e.Index, e.Token, e.Err)
	}
	return fmt.Sprintf("command %d: %v", e.Index, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type scanner struct {
	*bufio.Scanner
	index int
}

func (s *scanner) word() (string, error) {
	if s.Scan() {
		return s.Text(), nil
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", &CommandError{Index: s.index, Err: fmt.Errorf("%w: unexpected end of input", ErrMalformed)}
}

func (s *scanner) int() (int, error) {
	w, err := s.word()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, &CommandError{Index: s.index, Token: w, Err: fmt.Errorf("%w: not an integer", ErrMalformed)}
	}
	return n, nil
}

// Parse reads a whole command stream.
func Parse(r io.Reader) ([]Command, error) {
	s := &scanner{Scanner: bufio.NewScanner(r)}
	s.Split(bufio.ScanWords)

	n, err := s.int()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &CommandError{Token: strconv.Itoa(n), Err: fmt.Errorf("%w: negative command count", ErrMalformed)}
	}
	if _, err = s.int(); err != nil {
		return nil, err
	}

	// n is untrusted; the slice grows past the hint only for real commands.
	cmds := make([]Command, 0, min(n, 1<<16))
	for s.index = 1; s.index <= n; s.index++ {
		w, err := s.word()
		if err != nil {
			return nil, err
		}
		op := Op(w[0])
		if len(w) != 1 || op.arity() < 0 {
			return nil, &CommandError{Index: s.index, Token: w, Err: fmt.Errorf("%w: unknown command", ErrMalformed)}
		}
		c := Command{Op: op}
		if c.A, err = s.int(); err != nil {
			return nil, err
		}
		if op.arity() == 2 {
			if c.B, err = s.int(); err != nil {
				return nil, err
			}
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
