package store

import (
	"context"
	"time"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

// Recorder persists engine progress for one session. It satisfies
// tutor.Recorder.
type Recorder struct {
	sessionID string
	events    EventRepo
	items     ItemRepo
}

// NewRecorder returns a Recorder that tags events with sessionID.
func NewRecorder(sessionID string, events EventRepo, items ItemRepo) *Recorder {
	return &Recorder{sessionID: sessionID, events: events, items: items}
}

// Recorder returns a Recorder for sessionID backed by this store.
func (s *Store) Recorder(sessionID string) *Recorder {
	return NewRecorder(sessionID, s.EventRepo(), s.ItemRepo())
}

func (r *Recorder) RecordInteraction(ctx context.Context, id tutor.ItemID, in tutor.Interaction) error {
	return r.events.AppendInteraction(ctx, r.sessionID, id, in)
}

func (r *Recorder) RecordAsked(ctx context.Context, id tutor.ItemID, at time.Time) error {
	return r.events.AppendAsked(ctx, r.sessionID, id, at)
}

func (r *Recorder) SaveScheduling(ctx context.Context, items []*tutor.Item) error {
	return r.items.SaveScheduling(ctx, items)
}

var _ tutor.Recorder = (*Recorder)(nil)
