package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testItems() []*tutor.Item {
	return []*tutor.Item{
		{
			ID: "horse", Name: "horse", TargetName: "घोडा", Romanized: "ghoda",
			Image: "horse.png",
			Clips: tutor.Clips{Intro: "yo_ghoda_ho", Negative: "ghoda", WhereIs: "ghoda_kaha_chha"},
			Tags:  []string{"animals", "farm"},
		},
		{
			ID: "cow", Name: "cow", TargetName: "गाई", Romanized: "gai",
			Clips: tutor.Clips{Intro: "yo_gai_ho", Negative: "gai", WhereIs: "gai_kaha_chha"},
			Tags:  []string{"animals", "farm"},
		},
		{
			ID: "tiger", Name: "tiger", TargetName: "बाघ", Romanized: "bagh",
			Clips: tutor.Clips{Intro: "yo_bagh_ho", Negative: "bagh", WhereIs: "bagh_kaha_chha"},
			Tags:  []string{"animals", "wild"},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tables, err := buildTables()
	require.NoError(t, err)
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestUpsertAndListItems(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx, testItems()))

	items, err := repo.ListItems(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, tutor.ItemID("horse"), items[0].ID)
	assert.Equal(t, tutor.ItemID("cow"), items[1].ID)
	assert.Equal(t, tutor.ItemID("tiger"), items[2].ID)
	assert.Equal(t, "घोडा", items[0].TargetName)
	assert.Equal(t, "ghoda_kaha_chha", items[0].Clips.WhereIs)
	assert.Equal(t, []string{"animals", "farm"}, items[0].Tags)
	assert.Nil(t, items[0].IntroducedAt)
	assert.Nil(t, items[0].LastAskedRank)

	n, err := repo.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpsertKeepsOrderAndRefreshesFields(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx, testItems()[:2]))

	updated := testItems()
	updated[0].Romanized = "ghodaa"
	deer := &tutor.Item{ID: "deer", Name: "deer", TargetName: "मृग", Tags: []string{"animals", "wild"}}
	require.NoError(t, repo.UpsertItems(ctx, []*tutor.Item{deer, updated[0]}))

	items, err := repo.ListItems(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, tutor.ItemID("horse"), items[0].ID)
	assert.Equal(t, "ghodaa", items[0].Romanized)
	assert.Equal(t, tutor.ItemID("cow"), items[1].ID)
	assert.Equal(t, tutor.ItemID("deer"), items[2].ID)
}

func TestListItemsByTag(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()
	require.NoError(t, repo.UpsertItems(ctx, testItems()))

	wild, err := repo.ListItems(ctx, "wild")
	require.NoError(t, err)
	require.Len(t, wild, 1)
	assert.Equal(t, tutor.ItemID("tiger"), wild[0].ID)

	none, err := repo.ListItems(ctx, "birds")
	require.NoError(t, err)
	assert.Empty(t, none)

	tags, err := repo.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "farm", "wild"}, tags)
}

func TestHistoryAndSchedulingRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ItemRepo().UpsertItems(ctx, testItems()))

	items, err := s.ItemRepo().ListItems(ctx, "")
	require.NoError(t, err)
	horse := items[0]

	rec := s.Recorder("session-1")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	outcomes := []tutor.Outcome{
		tutor.Correct, tutor.Incorrect, tutor.Correct, tutor.Correct,
		tutor.UnknownTargetMiss, tutor.Correct, tutor.Correct, tutor.Correct,
	}
	for i, o := range outcomes {
		in := tutor.Interaction{At: base.Add(time.Duration(i) * time.Minute), Outcome: o, Attempts: 1}
		horse.Record(in)
		require.NoError(t, rec.RecordInteraction(ctx, horse.ID, in))
	}
	require.NoError(t, rec.RecordAsked(ctx, horse.ID, base))

	introduced := base.Add(-time.Hour)
	rank := 0
	horse.IntroducedAt = &introduced
	horse.LastAskedRank = &rank
	require.NoError(t, rec.SaveScheduling(ctx, []*tutor.Item{horse}))

	reloaded, err := s.ItemRepo().ListItems(ctx, "")
	require.NoError(t, err)
	got := reloaded[0]

	require.Len(t, got.History, len(outcomes))
	assert.Equal(t, tutor.UnknownTargetMiss, got.History[4].Outcome)
	assert.True(t, got.History[0].At.Equal(base))
	require.Len(t, got.Asked, 1)
	require.NotNil(t, got.IntroducedAt)
	assert.True(t, got.IntroducedAt.Equal(introduced))
	require.NotNil(t, got.LastAskedRank)
	assert.Equal(t, 0, *got.LastAskedRank)

	wantScore, wantCount, ok := horse.CachedScore()
	require.True(t, ok)
	gotScore, gotCount, ok := got.CachedScore()
	require.True(t, ok)
	assert.Equal(t, wantCount, gotCount)
	assert.InDelta(t, wantScore, gotScore, 1e-9)
	assert.InDelta(t, tutor.ComputeScore(horse), tutor.ComputeScore(got), 1e-9)

	// Untouched items keep empty state.
	assert.Empty(t, reloaded[1].History)
	assert.Nil(t, reloaded[1].IntroducedAt)
}

func TestResetProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ItemRepo().UpsertItems(ctx, testItems()))

	items, err := s.ItemRepo().ListItems(ctx, "")
	require.NoError(t, err)
	rec := s.Recorder("s")
	now := time.Now().UTC()
	rank := 0
	items[0].IntroducedAt = &now
	items[0].LastAskedRank = &rank
	require.NoError(t, rec.RecordInteraction(ctx, items[0].ID, tutor.Interaction{At: now, Outcome: tutor.Correct, Attempts: 1}))
	require.NoError(t, rec.RecordAsked(ctx, items[0].ID, now))
	require.NoError(t, rec.SaveScheduling(ctx, items))
	require.NoError(t, s.SnapshotRepo().Save(ctx, &Snapshot{Data: SnapshotData{ActiveCount: 1}}))

	require.NoError(t, s.ItemRepo().ResetProgress(ctx))

	reloaded, err := s.ItemRepo().ListItems(ctx, "")
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	assert.Empty(t, reloaded[0].History)
	assert.Empty(t, reloaded[0].Asked)
	assert.Nil(t, reloaded[0].IntroducedAt)
	assert.Nil(t, reloaded[0].LastAskedRank)

	snap, err := s.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: "start"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "a", Action: "end", ItemsActive: 3, QuestionsAsked: 10, CorrectAnswers: 8, IncorrectAnswers: 2,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "b", Action: "start", Tag: "wild"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "b", Action: "end", Tag: "wild", ItemsActive: 1}))

	events, err := repo.RecentSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].SessionID)
	assert.Equal(t, "wild", events[0].Tag)
	assert.Equal(t, "a", events[1].SessionID)
	assert.Equal(t, 8, events[1].CorrectAnswers)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)

	limited, err := repo.RecentSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "catalog-draft", InputTokens: 10, OutputTokens: 20, Success: true, RequestBody: "{}", ResponseBody: "{}"},
		{Provider: "mock", Model: "m1", Purpose: "catalog-draft", InputTokens: 5, Success: false, ErrorMessage: "boom"},
		{Provider: "mock", Model: "m2", Purpose: "romanize", InputTokens: 1, OutputTokens: 1, Success: true},
	}
	for _, c := range calls {
		require.NoError(t, repo.AppendLLMRequest(ctx, c))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "romanize", events[0].Purpose)
	assert.False(t, events[1].Success)
	assert.Equal(t, "boom", events[1].ErrorMessage)

	page, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Before: events[0].Sequence})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, events[1].ID, page[0].ID)

	ev, err := repo.GetLLMEvent(ctx, events[2].ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "{}", ev.RequestBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, LLMUsage{Purpose: "catalog-draft", Model: "m1", Calls: 2, Failures: 1, InputTokens: 15, OutputTokens: 20}, usage[0])
	assert.Equal(t, LLMUsage{Purpose: "romanize", Model: "m2", Calls: 1, InputTokens: 1, OutputTokens: 1}, usage[1])
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		Data:      SnapshotData{SessionID: "abc", ActiveCount: 4, ActiveIDs: []string{"horse", "cow", "sheep", "goat"}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if snap.Data.Version != snapshotVersion {
		t.Errorf("data.version = %d, want %d", snap.Data.Version, snapshotVersion)
	}
	if snap.Data.ActiveCount != 4 || len(snap.Data.ActiveIDs) != 4 {
		t.Errorf("data = %+v, want 4 active items", snap.Data)
	}
}

func TestSnapshotLatestForTag(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for _, d := range []SnapshotData{
		{Tag: "", ActiveCount: 2},
		{Tag: "wild", ActiveCount: 1},
		{Tag: "", ActiveCount: 3},
		{Tag: "farm", ActiveCount: 5},
	} {
		require.NoError(t, repo.Save(ctx, &Snapshot{Data: d}))
	}

	all, err := repo.LatestForTag(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Equal(t, 3, all.Data.ActiveCount)

	wild, err := repo.LatestForTag(ctx, "wild")
	require.NoError(t, err)
	require.NotNil(t, wild)
	assert.Equal(t, 1, wild.Data.ActiveCount)

	none, err := repo.LatestForTag(ctx, "birds")
	require.NoError(t, err)
	assert.Nil(t, none)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "farm", latest.Data.Tag)
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{Data: SnapshotData{ActiveCount: i + 1}})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.ActiveCount != 7 {
		t.Errorf("latest active count = %d, want 7", snap.Data.ActiveCount)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, &Snapshot{Data: SnapshotData{}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}
