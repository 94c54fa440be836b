// Package console drives a tutor session from line-oriented input, for
// terminals without full-screen support and for scripted drills.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/nepaligpa/internal/audio"
	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

const help = `commands:
  n        introduce the next word
  q        ask a question
  1-99     answer with that card
  s        shuffle the cards
  r        replay the prompt
  a / p    start / pause auto mode
  l        list the cards
  x        quit`

// Runner reads one command per line and narrates the session as text.
//
// Input lines and playback progress are consumed by the goroutine calling
// Run, so the engine has a single owner.
type Runner struct {
	engine *tutor.Engine
	in     io.Reader
	out    io.Writer
	log    *slog.Logger

	shown  tutor.Ticket
	closed tutor.Ticket
}

// New creates a Runner for engine.
func New(engine *tutor.Engine, in io.Reader, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: engine, in: in, out: out, log: logger}
}

// Run processes commands until "x", end of input or ctx is done. At end
// of input it lets narration in flight finish first.
func (r *Runner) Run(ctx context.Context) error {
	lines := make(chan string)
	go r.readLines(ctx, lines)

	r.printf("%s\n", theme.Title.Render("nepaligpa"))
	r.printf("%s\n", theme.Hint.Render("type h for help"))
	r.show()

	for {
		ticket, progress := r.playback()
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return r.drain(ctx)
			}
			if quit := r.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}

		case p, ok := <-progress:
			if !ok {
				r.closed = ticket
				continue
			}
			r.engine.HandleProgress(ctx, ticket, p)
		}
		r.show()
	}
}

func (r *Runner) readLines(ctx context.Context, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(r.in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		r.log.Warn("read input", "error", err)
	}
}

// playback hides a progress channel that closed without finishing, so the
// select loop does not spin on it.
func (r *Runner) playback() (tutor.Ticket, <-chan audio.Progress) {
	t, ch := r.engine.Playback()
	if t != 0 && t == r.closed {
		return t, nil
	}
	return t, ch
}

func (r *Runner) drain(ctx context.Context) error {
	for {
		ticket, progress := r.playback()
		if progress == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-progress:
			if !ok {
				r.closed = ticket
				continue
			}
			r.engine.HandleProgress(ctx, ticket, p)
			r.show()
		}
	}
}

// handle applies one command and reports whether the learner quit.
func (r *Runner) handle(ctx context.Context, cmd string) bool {
	switch strings.ToLower(cmd) {
	case "":
		return false
	case "x", "quit", "exit":
		return true
	case "h", "?", "help":
		r.printf("%s\n", help)
	case "n":
		if !r.engine.IntroduceNext(ctx) {
			r.printf("%s\n", theme.Hint.Render("every word is already on the board"))
		} else {
			r.board()
		}
	case "q":
		if len(r.engine.Active()) == 0 {
			r.printf("%s\n", theme.Hint.Render("introduce a word first (n)"))
		}
		r.engine.AskQuestion(ctx)
	case "s":
		r.engine.Shuffle()
		r.board()
	case "r":
		r.engine.ReplayPrompt(ctx)
	case "a":
		r.engine.SetAutoMode(ctx, true)
	case "p":
		r.engine.SetAutoMode(ctx, false)
		r.printf("%s\n", theme.Hint.Render("auto mode paused"))
	case "l":
		r.board()
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			r.printf("unknown command %q, type h for help\n", cmd)
			return false
		}
		r.answer(ctx, n)
	}
	return false
}

func (r *Runner) answer(ctx context.Context, n int) {
	v := r.engine.View()
	if n < 1 || n > len(v.Items) {
		r.printf("no card %d\n", n)
		return
	}
	iv := v.Items[n-1]
	if iv.Suppressed {
		r.printf("%s\n", theme.Hint.Render("that card is hidden"))
		return
	}
	hadQuestion := v.Pending != ""
	r.engine.CheckAnswer(ctx, iv.ID)
	if !hadQuestion {
		return
	}
	after := r.engine.View()
	if after.Pending == "" {
		r.printf("%s\n", theme.Correct.Render("✓ "+iv.Name))
		return
	}
	r.printf("%s\n", theme.Incorrect.Render("✗ "+iv.Name))
	if after.Attempts == tutor.HalfGrayOutAttempts || after.Attempts == tutor.NarrowGrayOutAttempts {
		r.board()
	}
}

// show prints the prompt of a narration the learner has not seen yet.
func (r *Runner) show() {
	t, _ := r.engine.Playback()
	if t == 0 || t == r.shown {
		return
	}
	r.shown = t
	if p := r.engine.View().Prompt; p != "" {
		r.printf("» %s\n", theme.Body.Render(p))
	}
}

func (r *Runner) board() {
	v := r.engine.View()
	if len(v.Items) == 0 {
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("#", "word", "नेपाली", "score", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Foreground(theme.Primary).Bold(true)
			}
			if v.Items[row].Suppressed {
				return s.Foreground(theme.TextDim).Faint(true)
			}
			return s
		})
	for i, it := range v.Items {
		mark := ""
		switch {
		case it.Suppressed:
			mark = "hidden"
		case it.Introducing:
			mark = "new"
		}
		t.Row(strconv.Itoa(i+1), it.Name, it.TargetName, fmt.Sprintf("%.0f", it.Score), mark)
	}
	r.printf("%s\n", t.Render())
	r.printf("%s\n", theme.Hint.Render(fmt.Sprintf("%d of %d words", v.Active, v.Total)))
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := lipgloss.Fprintf(r.out, format, args...); err != nil {
		r.log.Debug("write output", "error", err)
	}
}
