package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

func (r *eventRepo) AppendInteraction(ctx context.Context, sessionID string, id tutor.ItemID, in tutor.Interaction) error {
	err := r.insertEvent(ctx, tableInteractions,
		[]string{"session_id", "item_id", "outcome", "attempts", "answered_at"},
		[]any{sessionID, string(id), in.Outcome.String(), in.Attempts, in.At.UTC()},
	)
	if err != nil {
		return fmt.Errorf("save interaction: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAsked(ctx context.Context, sessionID string, id tutor.ItemID, at time.Time) error {
	err := r.insertEvent(ctx, tableAsked,
		[]string{"session_id", "item_id", "asked_at"},
		[]any{sessionID, string(id), at.UTC()},
	)
	if err != nil {
		return fmt.Errorf("save asked event: %w", err)
	}
	return nil
}
