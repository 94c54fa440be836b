// Package tutor implements the adaptive word tutor: competency scoring,
// next-question selection, answer remediation and automatic pacing.
package tutor

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/abhisek/nepaligpa/internal/audio"
)

// Deps are the collaborators an Engine needs. Zero values get defaults:
// silent audio, no persistence, a time-seeded generator, time.Now and
// slog.Default.
type Deps struct {
	Player   audio.Player
	Recorder Recorder
	Rand     *rand.Rand
	Clock    func() time.Time
	Logger   *slog.Logger
}

// Ticket identifies one playback started by the engine. Progress for an
// older ticket is ignored.
type Ticket uint64

type purpose int

const (
	purposeIntro purpose = iota + 1
	purposeQuestion
	purposeCorrect
	purposeWrong
	purposeReplay
)

type playback struct {
	ticket  Ticket
	purpose purpose
	ch      <-chan audio.Progress
	cancel  context.CancelFunc
}

// Stats counts what happened during a session.
type Stats struct {
	Introduced int
	Asked      int
	Correct    int
	Incorrect  int
}

// Engine runs one learning session over a catalog of items.
//
// An Engine is not safe for concurrent use. A single owner calls its
// methods and feeds playback progress back through HandleProgress.
type Engine struct {
	catalog []*Item
	byID    map[ItemID]*Item
	active  []*Item

	pending       ItemID
	attempts      int
	suppressed    map[ItemID]bool
	highlighted   ItemID
	answered      ItemID
	introducing   ItemID
	prompt        string
	promptPlaying bool
	lastClips     []string

	play       *playback
	lastTicket Ticket

	phase    PacePhase
	paceStep int

	stats Stats

	player   audio.Player
	recorder Recorder
	rng      *rand.Rand
	now      func() time.Time
	log      *slog.Logger
}

// New creates an engine over catalog. Items become active in catalog order.
func New(catalog []*Item, deps Deps) *Engine {
	e := &Engine{
		catalog:    catalog,
		byID:       make(map[ItemID]*Item, len(catalog)),
		suppressed: make(map[ItemID]bool),
		player:     deps.Player,
		recorder:   deps.Recorder,
		rng:        deps.Rand,
		now:        deps.Clock,
		log:        deps.Logger,
	}
	for _, it := range catalog {
		e.byID[it.ID] = it
	}
	if e.player == nil {
		e.player = audio.Silent{}
	}
	if e.recorder == nil {
		e.recorder = NopRecorder{}
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Resume activates the first n catalog items without narration, restoring
// the active set of an earlier session.
func (e *Engine) Resume(ctx context.Context, n int) {
	if n > len(e.catalog) {
		n = len(e.catalog)
	}
	now := e.now()
	var restored []*Item
	for len(e.active) < n {
		it := e.catalog[len(e.active)]
		if it.IntroducedAt == nil {
			t := now
			it.IntroducedAt = &t
		}
		e.active = append(e.active, it)
		restored = append(restored, it)
	}
	if len(restored) > 0 {
		e.saveScheduling(ctx, restored...)
	}
}

// IntroduceNext adds the next catalog item to the active set and narrates
// it. It returns false when every item is already active.
func (e *Engine) IntroduceNext(ctx context.Context) bool {
	e.stopPlayback()
	if len(e.active) >= len(e.catalog) {
		return false
	}

	it := e.catalog[len(e.active)]
	now := e.now()
	it.IntroducedAt = &now
	e.active = append(e.active, it)
	e.stats.Introduced++

	e.introducing = it.ID
	e.prompt = introPrompt(it)
	if e.phase != PaceOff {
		e.phase = PaceIntroducing
	}
	e.saveScheduling(ctx, it)
	e.startPlayback(ctx, purposeIntro, it.Clips.Intro)
	return true
}

// AskQuestion poses a question. A pending question that was not yet
// answered correctly is asked again; otherwise a new target is selected.
// It does nothing with no active items or while the pending question's
// prompt is still being narrated.
func (e *Engine) AskQuestion(ctx context.Context) {
	if len(e.active) == 0 {
		return
	}
	if e.pending != "" && e.promptPlaying {
		return
	}

	var target *Item
	if e.pending != "" {
		target = e.pendingItem()
		if target == nil {
			e.log.Error("pending target is not active", "target", e.pending)
			e.pending = ""
		}
	}
	if target == nil {
		target = SelectNext(e.active, e.rng)
		MarkAsked(e.active, target, e.now())
		e.stats.Asked++
		if err := e.recorder.RecordAsked(ctx, target.ID, target.Asked[len(target.Asked)-1]); err != nil {
			e.log.Warn("record asked", "item", target.ID, "error", err)
		}
		e.saveScheduling(ctx, e.active...)
	}

	e.pending = target.ID
	e.attempts = 0
	e.prompt = questionPrompt(target.TargetName)
	if e.phase != PaceOff {
		e.phase = PaceQuizzing
	}
	e.startPlayback(ctx, purposeQuestion, target.Clips.WhereIs)
	e.promptPlaying = true
}

// CheckAnswer evaluates the learner picking item id. Any narration in
// flight is stopped first. Callers should not offer suppressed items.
func (e *Engine) CheckAnswer(ctx context.Context, id ItemID) {
	e.stopPlayback()

	if e.pending == "" {
		e.advancePace(ctx, paceIdleTap)
		return
	}

	target := e.pendingItem()
	if target == nil {
		e.log.Error("pending target is not active", "target", e.pending)
		return
	}
	selected := e.activeItem(id)
	if selected == nil {
		e.log.Warn("answer for inactive item ignored", "item", id)
		return
	}

	if selected == target {
		e.answerCorrect(ctx, target)
		return
	}
	e.answerWrong(ctx, selected, target)
}

func (e *Engine) answerCorrect(ctx context.Context, target *Item) {
	e.record(ctx, target, Correct, e.attempts+1)
	e.saveScheduling(ctx, target)
	e.stats.Correct++

	e.pending = ""
	e.attempts = 0
	clear(e.suppressed)
	e.highlighted = ""
	e.answered = target.ID
	e.prompt = correctPrompt

	e.advancePace(ctx, paceAnsweredCorrectly)
	e.startPlayback(ctx, purposeCorrect, CorrectClip)
}

func (e *Engine) answerWrong(ctx context.Context, selected, target *Item) {
	e.attempts++
	e.stats.Incorrect++
	e.record(ctx, selected, Incorrect, e.attempts)
	e.record(ctx, target, UnknownTargetMiss, e.attempts)
	e.saveScheduling(ctx, selected, target)

	switch e.attempts {
	case HalfGrayOutAttempts:
		e.suppress(grayOutHalf(e.active, target.ID, e.rng))
	case NarrowGrayOutAttempts:
		e.suppress(grayOutAllButTwo(e.active, target.ID, e.suppressed, e.rng))
	}

	e.highlighted = selected.ID
	e.prompt = wrongPrompt(selected, target.TargetName)
	e.startPlayback(ctx, purposeWrong, selected.Clips.Negative, target.Clips.WhereIs)
	e.promptPlaying = true
}

func (e *Engine) suppress(ids []ItemID) {
	clear(e.suppressed)
	for _, id := range ids {
		e.suppressed[id] = true
	}
}

// Shuffle randomly reorders the active items.
func (e *Engine) Shuffle() {
	e.rng.Shuffle(len(e.active), func(i, j int) {
		e.active[i], e.active[j] = e.active[j], e.active[i]
	})
}

// ReplayPrompt narrates the current question again, or repeats the last
// narration when no question is pending.
func (e *Engine) ReplayPrompt(ctx context.Context) {
	if e.pending != "" {
		if target := e.pendingItem(); target != nil {
			e.startPlayback(ctx, purposeQuestion, target.Clips.WhereIs)
			e.promptPlaying = true
			return
		}
	}
	if len(e.lastClips) > 0 {
		e.startPlayback(ctx, purposeReplay, e.lastClips...)
	}
}

// SetAutoMode turns automatic pacing on or off. Turning it on restarts the
// pacing cycle from the current session state.
func (e *Engine) SetAutoMode(ctx context.Context, on bool) {
	if !on {
		e.advancePace(ctx, pacePause)
		return
	}
	e.paceStep = 0
	e.advancePace(ctx, paceStart)
}

// AutoMode reports whether automatic pacing is running.
func (e *Engine) AutoMode() bool {
	return e.phase != PaceOff
}

func (e *Engine) advancePace(ctx context.Context, ev paceEvent) {
	if e.phase == PaceOff && ev != paceStart {
		return
	}
	facts := paceFacts{
		step:      e.paceStep,
		active:    len(e.active),
		remaining: len(e.catalog) - len(e.active),
	}
	if facts.step > 1 && facts.remaining > 0 {
		facts.competent = Competent(e.active, e.newest())
	}

	phase, act := nextPace(e.phase, ev, facts)
	e.phase = phase
	if act == actNone {
		return
	}
	e.paceStep++
	e.log.Debug("auto pace", "step", e.paceStep, "phase", phase.String(), "competent", facts.competent)

	switch act {
	case actIntroduce:
		e.IntroduceNext(ctx)
	case actAsk:
		e.AskQuestion(ctx)
	}
}

// Playback returns the ticket and progress channel of the narration in
// flight. The channel is nil when nothing is playing.
func (e *Engine) Playback() (Ticket, <-chan audio.Progress) {
	if e.play == nil {
		return 0, nil
	}
	return e.play.ticket, e.play.ch
}

// HandleProgress applies a playback progress event. Events for a ticket
// other than the current one are ignored.
func (e *Engine) HandleProgress(ctx context.Context, t Ticket, p audio.Progress) {
	if e.play == nil || e.play.ticket != t {
		return
	}
	pb := e.play

	switch p.Kind {
	case audio.ClipFinished:
		if p.Index == 0 {
			e.clearMarker(pb.purpose)
		}
	case audio.Finished:
		pb.cancel()
		e.play = nil
		switch pb.purpose {
		case purposeQuestion, purposeWrong:
			e.promptPlaying = false
		case purposeIntro:
			e.advancePace(ctx, paceIntroFinished)
		case purposeCorrect:
			e.advancePace(ctx, paceFeedbackFinished)
		}
	}
}

// Close stops any narration in flight.
func (e *Engine) Close() {
	e.stopPlayback()
}

func (e *Engine) startPlayback(ctx context.Context, p purpose, clips ...string) {
	if e.play != nil {
		e.play.cancel()
		e.clearMarker(e.play.purpose)
		e.play = nil
	}
	e.promptPlaying = false

	pctx, cancel := context.WithCancel(ctx)
	e.lastTicket++
	e.play = &playback{
		ticket:  e.lastTicket,
		purpose: p,
		ch:      e.player.Play(pctx, clips),
		cancel:  cancel,
	}
	e.lastClips = clips
}

func (e *Engine) stopPlayback() {
	if e.play == nil {
		return
	}
	e.play.cancel()
	e.clearMarker(e.play.purpose)
	e.play = nil
	e.promptPlaying = false
}

// clearMarker drops the visual marker that lasts for the first clip of a
// narration.
func (e *Engine) clearMarker(p purpose) {
	switch p {
	case purposeIntro:
		e.introducing = ""
	case purposeCorrect:
		e.answered = ""
	case purposeWrong:
		e.highlighted = ""
	}
}

func (e *Engine) record(ctx context.Context, it *Item, o Outcome, attempts int) {
	in := Interaction{At: e.now(), Outcome: o, Attempts: attempts}
	it.Record(in)
	if err := e.recorder.RecordInteraction(ctx, it.ID, in); err != nil {
		e.log.Warn("record interaction", "item", it.ID, "outcome", o.String(), "error", err)
	}
}

func (e *Engine) saveScheduling(ctx context.Context, items ...*Item) {
	if err := e.recorder.SaveScheduling(ctx, items); err != nil {
		e.log.Warn("save scheduling", "items", len(items), "error", err)
	}
}

// pendingItem is the active item the pending question asks for. Items
// are matched by id, so two words sharing a Nepali name stay distinct.
func (e *Engine) pendingItem() *Item {
	if e.pending == "" {
		return nil
	}
	return e.activeItem(e.pending)
}

func (e *Engine) activeItem(id ItemID) *Item {
	for _, it := range e.active {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// newest is the most recently introduced active item.
func (e *Engine) newest() *Item {
	if len(e.active) == 0 {
		return nil
	}
	return e.catalog[len(e.active)-1]
}

// Item returns a catalog item by id.
func (e *Engine) Item(id ItemID) (*Item, bool) {
	it, ok := e.byID[id]
	return it, ok
}

// Active returns the active items in display order.
func (e *Engine) Active() []*Item {
	return append([]*Item(nil), e.active...)
}

// Catalog returns every item of the session in introduction order.
func (e *Engine) Catalog() []*Item {
	return append([]*Item(nil), e.catalog...)
}

// Stats returns the session counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
