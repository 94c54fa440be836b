// Package session runs one learning session: it loads items from the
// store, builds the tutor engine, and persists the lifecycle events and the
// resume snapshot around it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/nepaligpa/internal/audio"
	"github.com/abhisek/nepaligpa/internal/store"
	"github.com/abhisek/nepaligpa/internal/tutor"
)

// KeepSnapshots is how many resume snapshots survive a session end.
const KeepSnapshots = 20

// ErrNoItems is returned when the selected catalog is empty.
var ErrNoItems = errors.New("no items to learn; import a catalog first")

// Repos are the repositories a session reads and writes.
type Repos struct {
	Items     store.ItemRepo
	Events    store.EventRepo
	Snapshots store.SnapshotRepo
}

// Options configure a session.
type Options struct {
	// Tag restricts the session to items carrying it ("" for all).
	Tag string

	// Auto starts the session in auto-pace mode.
	Auto bool

	// Resume re-activates as many items as the last session for Tag had,
	// without narrating them again.
	Resume bool

	// Seed makes question selection reproducible. Zero seeds from the clock.
	Seed uint64

	Player audio.Player
	Logger *slog.Logger
	Clock  func() time.Time
}

// Session owns an engine and the bookkeeping around it.
type Session struct {
	ID        string
	Tag       string
	StartTime time.Time
	Engine    *tutor.Engine

	repos  Repos
	log    *slog.Logger
	now    func() time.Time
	ended  bool
	resume int
}

// Start loads the items for opts.Tag, builds the engine and records the
// session start.
func Start(ctx context.Context, repos Repos, opts Options) (*Session, error) {
	items, err := repos.Items.ListItems(ctx, opts.Tag)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	if len(items) == 0 {
		if opts.Tag != "" {
			return nil, fmt.Errorf("%w (tag %q)", ErrNoItems, opts.Tag)
		}
		return nil, ErrNoItems
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(now().UnixNano())
	}

	id := uuid.New().String()
	logger = logger.With("session", id)
	s := &Session{
		ID:        id,
		Tag:       opts.Tag,
		StartTime: now(),
		repos:     repos,
		log:       logger,
		now:       now,
	}
	s.Engine = tutor.New(items, tutor.Deps{
		Player:   opts.Player,
		Recorder: store.NewRecorder(id, repos.Events, repos.Items),
		Rand:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Clock:    now,
		Logger:   logger,
	})

	if opts.Resume {
		snap, err := repos.Snapshots.LatestForTag(ctx, opts.Tag)
		if err != nil {
			logger.Warn("load resume snapshot", "error", err)
		} else if snap != nil && snap.Data.ActiveCount > 0 {
			s.resume = snap.Data.ActiveCount
			s.Engine.Resume(ctx, snap.Data.ActiveCount)
			logger.Info("resumed", "active", len(s.Engine.Active()))
		}
	}

	if err := repos.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:   id,
		Action:      "start",
		Tag:         opts.Tag,
		ItemsActive: len(s.Engine.Active()),
	}); err != nil {
		logger.Warn("record session start", "error", err)
	}
	logger.Info("session started", "tag", opts.Tag, "items", len(items), "seed", seed)

	if opts.Auto {
		s.Engine.SetAutoMode(ctx, true)
	}
	return s, nil
}

// Resumed reports how many items were re-activated from a snapshot.
func (s *Session) Resumed() int {
	return s.resume
}

// End stops narration, records the session end and the resume snapshot,
// and returns the summary. Calling End again returns a fresh summary
// without writing anything.
func (s *Session) End(ctx context.Context) *Summary {
	s.Engine.Close()
	summary := BuildSummary(s.Engine, s.now().Sub(s.StartTime))
	if s.ended {
		return summary
	}
	s.ended = true

	stats := s.Engine.Stats()
	active := s.Engine.Active()
	if err := s.repos.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:        s.ID,
		Action:           "end",
		Tag:              s.Tag,
		ItemsActive:      len(active),
		ItemsIntroduced:  stats.Introduced,
		QuestionsAsked:   stats.Asked,
		CorrectAnswers:   stats.Correct,
		IncorrectAnswers: stats.Incorrect,
		DurationSecs:     int(summary.Duration.Seconds()),
	}); err != nil {
		s.log.Warn("record session end", "error", err)
	}

	ids := make([]string, len(active))
	for i, it := range active {
		ids[i] = string(it.ID)
	}
	err := s.repos.Snapshots.Save(ctx, &store.Snapshot{Data: store.SnapshotData{
		SessionID:   s.ID,
		Tag:         s.Tag,
		ActiveCount: len(active),
		ActiveIDs:   ids,
		AutoMode:    s.Engine.AutoMode(),
	}})
	if err != nil {
		s.log.Warn("save snapshot", "error", err)
	} else if err := s.repos.Snapshots.Prune(ctx, KeepSnapshots); err != nil {
		s.log.Warn("prune snapshots", "error", err)
	}

	s.log.Info("session ended",
		"asked", stats.Asked, "correct", stats.Correct, "incorrect", stats.Incorrect,
		"duration", summary.Duration.Round(time.Second))
	return summary
}
