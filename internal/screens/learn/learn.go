// Package learn is the full-screen learning session: word cards, spoken
// prompts and the keys that drive the tutor.
package learn

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/screens/summary"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/components"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
)

// LearnScreen implements screen.Screen for a running session.
//
// The engine is only touched from Update. Playback progress reaches it as
// progressMsg values produced by a command that reads the current
// narration's channel; at most one such command is armed at a time.
type LearnScreen struct {
	ctx   context.Context
	repos session.Repos
	opts  session.Options

	sess   *session.Session
	width  int
	cursor int

	armed  tutor.Ticket // ticket with a read command in flight
	closed tutor.Ticket // ticket whose channel closed early

	showScores  bool
	confirmQuit bool
	ending      bool
	notice      string
	errMsg      string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.StatusProvider = (*LearnScreen)(nil)
var _ screen.EscapeHandler = (*LearnScreen)(nil)
var _ screen.Closer = (*LearnScreen)(nil)

// New creates a LearnScreen. The session starts when the screen is shown.
// ctx bounds the session and all narration.
func New(ctx context.Context, repos session.Repos, opts session.Options) *LearnScreen {
	return &LearnScreen{ctx: ctx, repos: repos, opts: opts}
}

func (s *LearnScreen) Init() tea.Cmd {
	ctx, repos, opts := s.ctx, s.repos, s.opts
	return func() tea.Msg {
		sess, err := session.Start(ctx, repos, opts)
		return startedMsg{Session: sess, Err: err}
	}
}

func (s *LearnScreen) Title() string {
	if s.opts.Tag != "" {
		return "Learn · " + s.opts.Tag
	}
	return "Learn"
}

// Status shows how many words are on the board.
func (s *LearnScreen) Status() string {
	if s.sess == nil {
		return ""
	}
	v := s.sess.Engine.View()
	status := fmt.Sprintf("%d/%d words", v.Active, v.Total)
	if v.Auto {
		status += " · auto"
	}
	return status
}

// HandlesEscape keeps esc for the quit confirmation once a session runs.
func (s *LearnScreen) HandlesEscape() bool {
	return s.sess != nil && !s.ending
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.sess == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	auto := layout.KeyHint{Key: "a", Description: "Auto"}
	if s.sess.Engine.AutoMode() {
		auto = layout.KeyHint{Key: "p", Description: "Pause"}
	}
	return []layout.KeyHint{
		{Key: "n", Description: "New word"},
		{Key: "q", Description: "Ask"},
		{Key: "1-9", Description: "Answer"},
		{Key: "r", Description: "Replay"},
		{Key: "s", Description: "Shuffle"},
		auto,
		{Key: "Esc", Description: "End"},
	}
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case progressMsg:
		return s.handleProgress(msg)

	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LearnScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, session.ErrNoItems) {
			s.errMsg = msg.Err.Error() + " (nepaligpa catalog import)"
		} else {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.sess = msg.Session
	if n := s.sess.Resumed(); n > 0 {
		s.notice = fmt.Sprintf("welcome back, %d words on the board", n)
	}
	return s, s.watch()
}

func (s *LearnScreen) handleProgress(msg progressMsg) (screen.Screen, tea.Cmd) {
	if msg.Ticket == s.armed {
		s.armed = 0
	}
	if s.ending || s.sess == nil {
		return s, nil
	}
	if msg.Closed {
		s.closed = msg.Ticket
		return s, s.watch()
	}
	s.sess.Engine.HandleProgress(s.ctx, msg.Ticket, msg.Progress)
	return s, s.watch()
}

// watch arms a read of the current narration's progress channel unless
// one is already pending for it.
func (s *LearnScreen) watch() tea.Cmd {
	t, ch := s.sess.Engine.Playback()
	if ch == nil || t == s.armed || t == s.closed {
		return nil
	}
	s.armed = t
	return func() tea.Msg {
		p, ok := <-ch
		return progressMsg{Ticket: t, Progress: p, Closed: !ok}
	}
}

func (s *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.sess == nil || s.ending {
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.end()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	e := s.sess.Engine
	s.notice = ""
	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "n":
		if !e.IntroduceNext(s.ctx) {
			s.notice = "every word is already on the board"
		}
	case "q":
		if len(e.Active()) == 0 {
			s.notice = "introduce a word first (n)"
		}
		e.AskQuestion(s.ctx)
	case "s":
		e.Shuffle()
	case "r":
		e.ReplayPrompt(s.ctx)
	case "a":
		e.SetAutoMode(s.ctx, true)
	case "p":
		e.SetAutoMode(s.ctx, false)
		s.notice = "auto mode paused"
	case "v":
		s.showScores = !s.showScores
	case "left", "h":
		s.moveCursor(-1, 0)
	case "right", "l":
		s.moveCursor(1, 0)
	case "up", "k":
		s.moveCursor(0, -1)
	case "down", "j":
		s.moveCursor(0, 1)
	case "enter", "space":
		s.answer(s.cursor)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			s.answer(n - 1)
		}
	}
	s.clampCursor()
	return s, s.watch()
}

func (s *LearnScreen) answer(i int) {
	v := s.sess.Engine.View()
	if i < 0 || i >= len(v.Items) {
		s.notice = fmt.Sprintf("no card %d", i+1)
		return
	}
	if v.Items[i].Suppressed {
		return
	}
	s.cursor = i
	s.sess.Engine.CheckAnswer(s.ctx, v.Items[i].ID)
}

func (s *LearnScreen) grid() components.CardGrid {
	v := s.sess.Engine.View()
	return components.CardGrid{
		Cards:      v.Items,
		Cursor:     s.cursor,
		ShowCursor: v.Pending != "",
		ShowScores: s.showScores,
	}
}

func (s *LearnScreen) moveCursor(dx, dy int) {
	s.cursor = s.grid().Move(dx, dy, components.Columns(s.gridWidth()))
}

// clampCursor keeps the cursor on a visible card after the board changed.
func (s *LearnScreen) clampCursor() {
	items := s.sess.Engine.View().Items
	if len(items) == 0 {
		s.cursor = 0
		return
	}
	if s.cursor >= len(items) {
		s.cursor = len(items) - 1
	}
	if !items[s.cursor].Suppressed {
		return
	}
	for i, it := range items {
		if !it.Suppressed {
			s.cursor = i
			return
		}
	}
}

// end persists the session and swaps this screen for its summary, so
// going back from the summary returns home.
func (s *LearnScreen) end() tea.Cmd {
	s.ending = true
	s.confirmQuit = false
	sum := s.sess.End(context.WithoutCancel(s.ctx))
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// Close ends a running session without showing the summary.
func (s *LearnScreen) Close() {
	if s.sess == nil || s.ending {
		return
	}
	s.ending = true
	s.sess.End(context.WithoutCancel(s.ctx))
}
