package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insertEvent(ctx, tableSessions,
		[]string{
			"session_id", "action", "tag", "items_active", "items_introduced",
			"questions_asked", "correct_answers", "incorrect_answers", "duration_secs",
		},
		[]any{
			data.SessionID, data.Action, data.Tag, data.ItemsActive, data.ItemsIntroduced,
			data.QuestionsAsked, data.CorrectAnswers, data.IncorrectAnswers, data.DurationSecs,
		},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionEvent, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp",
		"session_id", "action", "tag", "items_active", "items_introduced",
		"questions_asked", "correct_answers", "incorrect_answers", "duration_secs",
	).
		From(builder().Table(tableSessions)).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.Action, &e.Tag, &e.ItemsActive, &e.ItemsIntroduced,
			&e.QuestionsAsked, &e.CorrectAnswers, &e.IncorrectAnswers, &e.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
