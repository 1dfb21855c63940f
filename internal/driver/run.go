package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"
)

// ErrDiverged reports engines disagreeing while verifying.
var ErrDiverged = errors.New("engines diverged")

// ctxCheckEvery is how many commands run between context checks.
const ctxCheckEvery = 1 << 12

// Runner executes commands against an engine and writes the answers.
type Runner struct {
	Engine Engine
	// Reference, when set, runs every command too and any disagreement with
	// Engine fails the run with ErrDiverged.
	Reference Engine
	Logger    *slog.Logger
}

// Stats of a finished run.
type Stats struct {
	Commands int
	Answers  int
	Size     int
	Elapsed  time.Duration
}

func (u *Runner) apply(e Engine, c Command) (int, bool) {
	switch c.Op {
	case OpInsert:
		return 0, e.Insert(c.A, c.B)
	case OpAsk:
		return e.Ask(c.A)
	case OpReverse:
		return 0, e.Reverse(c.A, c.B)
	case OpErase:
		return 0, e.Erase(c.A, c.B)
	}
	return 0, false
}

// Run the commands in order, writing one line per ask followed by a line with the
// final sequence. Stops at the first command addressing a missing rank.
func (u *Runner) Run(ctx context.Context, cmds []Command, w io.Writer) (Stats, error) {
	logger := u.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()
	bw := bufio.NewWriter(w)
	var st Stats
	for i, c := range cmds {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return st, fmt.Errorf("run interrupted after %d commands: %w", i, err)
			}
		}
		v, ok := u.apply(u.Engine, c)
		if u.Reference != nil {
			rv, rok := u.apply(u.Reference, c)
			if rok != ok || rv != v {
				logger.ErrorContext(ctx, "engines diverged",
					slog.Int("index", i+1), slog.String("command", c.String()),
					slog.Int("got", v), slog.Int("want", rv))
				return st, &CommandError{Index: i + 1, Token: c.String(), Err: ErrDiverged}
			}
		}
		if !ok {
			return st, &CommandError{Index: i + 1, Token: c.String(), Err: ErrOutOfRange}
		}
		if c.Op == OpAsk {
			bw.WriteString(strconv.Itoa(v))
			bw.WriteByte('\n')
			st.Answers++
		}
		st.Commands++
	}

	vs := u.Engine.Values()
	if u.Reference != nil && !slices.Equal(vs, u.Reference.Values()) {
		logger.ErrorContext(ctx, "final sequences diverged", slog.Int("size", len(vs)))
		return st, ErrDiverged
	}
	for i, v := range vs {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.Itoa(v))
	}
	bw.WriteByte('\n')
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("write output: %w", err)
	}

	st.Size, st.Elapsed = len(vs), time.Since(start)
	logger.InfoContext(ctx, "run finished",
		slog.Int("commands", st.Commands), slog.Int("answers", st.Answers),
		slog.Int("size", st.Size), slog.Duration("elapsed", st.Elapsed))
	return st, nil
}
