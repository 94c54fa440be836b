package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqljson"
)

// snapshotVersion is written into every saved snapshot.
const snapshotVersion = 1

// snapshotRepo implements SnapshotRepo.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Data.Version == 0 {
		snap.Data.Version = snapshotVersion
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return err
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = nowUTC()
	}

	q, args := builder().Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UTC(), string(data)).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	return r.latest(ctx, nil)
}

func (r *snapshotRepo) LatestForTag(ctx context.Context, tag string) (*Snapshot, error) {
	return r.latest(ctx, sqljson.ValueEQ("data", tag, sqljson.Path("tag")))
}

func (r *snapshotRepo) latest(ctx context.Context, where *entsql.Predicate) (*Snapshot, error) {
	sel := builder().Select("id", "sequence", "timestamp", "data").
		From(builder().Table(tableSnapshots)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1)
	if where != nil {
		sel.Where(where)
	}
	q, args := sel.Query()

	var (
		snap Snapshot
		raw  string
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&snap.ID, &snap.Sequence, &snap.Timestamp, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence of the newest snapshot that falls outside keep.
	q, args := builder().Select("sequence").
		From(builder().Table(tableSnapshots)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()
	var threshold int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	q, args = builder().Delete(tableSnapshots).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
