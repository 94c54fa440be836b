package tutor

import (
	"context"
	"time"
)

// Recorder persists learning progress as the engine mutates it.
type Recorder interface {
	// RecordInteraction stores an interaction appended to an item's history.
	RecordInteraction(ctx context.Context, id ItemID, in Interaction) error

	// RecordAsked stores that an item became the question target.
	RecordAsked(ctx context.Context, id ItemID, at time.Time) error

	// SaveScheduling stores the mutable scheduling fields of the items
	// (introduction time, asked rank, cached score).
	SaveScheduling(ctx context.Context, items []*Item) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordInteraction(context.Context, ItemID, Interaction) error { return nil }
func (NopRecorder) RecordAsked(context.Context, ItemID, time.Time) error        { return nil }
func (NopRecorder) SaveScheduling(context.Context, []*Item) error               { return nil }
