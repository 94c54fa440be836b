package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

// catalogColumns are refreshed when a known item is imported again.
var catalogColumns = []string{
	"name", "target_name", "romanized", "image", "video",
	"intro_clip", "negative_clip", "where_clip", "tags",
}

var itemSelectColumns = []string{
	"id", "name", "target_name", "romanized", "image", "video",
	"intro_clip", "negative_clip", "where_clip", "tags",
	"introduced_at", "last_asked_rank", "cached_score", "cached_count",
}

// itemRepo implements ItemRepo.
type itemRepo struct {
	db *sql.DB
}

func (r *itemRepo) UpsertItems(ctx context.Context, items []*tutor.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var maxPos sql.NullInt64
	q, args := builder().Select(entsql.Max("position")).From(builder().Table(tableItems)).Query()
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&maxPos); err != nil {
		return fmt.Errorf("query max position: %w", err)
	}
	next := 0
	if maxPos.Valid {
		next = int(maxPos.Int64) + 1
	}

	now := nowUTC()
	for i, it := range items {
		tags, err := json.Marshal(it.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", it.ID, err)
		}
		q, args := builder().Insert(tableItems).
			Columns(append([]string{"id", "position"}, append(catalogColumns, "created_at")...)...).
			Values(
				string(it.ID), next+i,
				it.Name, it.TargetName, it.Romanized, it.Image, it.Video,
				it.Clips.Intro, it.Clips.Negative, it.Clips.WhereIs, string(tags),
				now,
			).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) {
					for _, c := range catalogColumns {
						u.SetExcluded(c)
					}
				}),
			).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func (r *itemRepo) ListItems(ctx context.Context, tag string) ([]*tutor.Item, error) {
	items, states, err := r.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	if tag != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.HasTag(tag) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	if len(items) == 0 {
		return items, nil
	}

	byID := make(map[tutor.ItemID]*tutor.Item, len(items))
	ids := make([]any, len(items))
	for i, it := range items {
		byID[it.ID] = it
		ids[i] = string(it.ID)
	}
	if err := r.loadHistory(ctx, byID, ids); err != nil {
		return nil, err
	}
	if err := r.loadAsked(ctx, byID, ids); err != nil {
		return nil, err
	}
	for _, it := range items {
		st := states[it.ID]
		it.RestoreCache(st.score, st.count)
	}
	return items, nil
}

// itemState holds persisted cache fields until history is attached.
type itemState struct {
	score *float64
	count int
}

// loadItems reads item rows in catalog order. Cache fields are returned
// separately because they can only be restored once history is attached.
func (r *itemRepo) loadItems(ctx context.Context) ([]*tutor.Item, map[tutor.ItemID]itemState, error) {
	q, args := builder().Select(itemSelectColumns...).
		From(builder().Table(tableItems)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*tutor.Item
	states := make(map[tutor.ItemID]itemState)
	for rows.Next() {
		var (
			it      tutor.Item
			id      string
			tags    sql.NullString
			intro   sql.NullTime
			rank    sql.NullInt64
			score   sql.NullFloat64
			counted int
		)
		if err := rows.Scan(
			&id, &it.Name, &it.TargetName, &it.Romanized, &it.Image, &it.Video,
			&it.Clips.Intro, &it.Clips.Negative, &it.Clips.WhereIs, &tags,
			&intro, &rank, &score, &counted,
		); err != nil {
			return nil, nil, fmt.Errorf("scan item: %w", err)
		}
		it.ID = tutor.ItemID(id)
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &it.Tags); err != nil {
				return nil, nil, fmt.Errorf("decode tags for %s: %w", id, err)
			}
		}
		if intro.Valid {
			t := intro.Time
			it.IntroducedAt = &t
		}
		if rank.Valid {
			n := int(rank.Int64)
			it.LastAskedRank = &n
		}
		st := itemState{count: counted}
		if score.Valid {
			s := score.Float64
			st.score = &s
		}
		items = append(items, &it)
		states[it.ID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, states, nil
}

func (r *itemRepo) loadHistory(ctx context.Context, byID map[tutor.ItemID]*tutor.Item, ids []any) error {
	q, args := builder().Select("item_id", "outcome", "attempts", "answered_at").
		From(builder().Table(tableInteractions)).
		Where(entsql.In("item_id", ids...)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, outcome string
			in          tutor.Interaction
		)
		if err := rows.Scan(&id, &outcome, &in.Attempts, &in.At); err != nil {
			return fmt.Errorf("scan interaction: %w", err)
		}
		o, ok := tutor.ParseOutcome(outcome)
		if !ok {
			return fmt.Errorf("interaction for %s: unknown outcome %q", id, outcome)
		}
		in.Outcome = o
		if it := byID[tutor.ItemID(id)]; it != nil {
			it.History = append(it.History, in)
		}
	}
	return rows.Err()
}

func (r *itemRepo) loadAsked(ctx context.Context, byID map[tutor.ItemID]*tutor.Item, ids []any) error {
	q, args := builder().Select("item_id", "asked_at").
		From(builder().Table(tableAsked)).
		Where(entsql.In("item_id", ids...)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("query asked events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return fmt.Errorf("scan asked event: %w", err)
		}
		if it := byID[tutor.ItemID(id)]; it != nil {
			it.Asked = append(it.Asked, at)
		}
	}
	return rows.Err()
}

func (r *itemRepo) CountItems(ctx context.Context) (int, error) {
	var n int
	q, args := builder().Select(entsql.Count("*")).From(builder().Table(tableItems)).Query()
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *itemRepo) Tags(ctx context.Context) ([]string, error) {
	items, _, err := r.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		for _, t := range it.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (r *itemRepo) SaveScheduling(ctx context.Context, items []*tutor.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save scheduling: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		u := builder().Update(tableItems).Where(entsql.EQ("id", string(it.ID)))
		if it.IntroducedAt != nil {
			u.Set("introduced_at", it.IntroducedAt.UTC())
		} else {
			u.SetNull("introduced_at")
		}
		if it.LastAskedRank != nil {
			u.Set("last_asked_rank", *it.LastAskedRank)
		} else {
			u.SetNull("last_asked_rank")
		}
		score, count, ok := it.CachedScore()
		if ok {
			u.Set("cached_score", score)
		} else {
			u.SetNull("cached_score")
		}
		u.Set("cached_count", count)

		q, args := u.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save scheduling for %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save scheduling: %w", err)
	}
	return nil
}

func (r *itemRepo) ResetProgress(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{tableInteractions, tableAsked, tableSnapshots} {
		q, args := builder().Delete(table).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	q, args := builder().Update(tableItems).
		SetNull("introduced_at").
		SetNull("last_asked_rank").
		SetNull("cached_score").
		Set("cached_count", 0).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clear scheduling: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
