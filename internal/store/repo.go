package store

import (
	"context"
	"time"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ItemRepo stores the catalog and each item's scheduling state.
type ItemRepo interface {
	// UpsertItems inserts new items after the existing ones and refreshes
	// catalog fields of known items. Learning state is left untouched.
	UpsertItems(ctx context.Context, items []*tutor.Item) error

	// ListItems returns items carrying tag (all items for ""), in catalog
	// order, with history, asked times and cached scores restored.
	ListItems(ctx context.Context, tag string) ([]*tutor.Item, error)

	// CountItems returns the number of stored items.
	CountItems(ctx context.Context) (int, error)

	// Tags returns the distinct tags across all items.
	Tags(ctx context.Context) ([]string, error)

	// SaveScheduling persists introduction time, asked rank and the cached
	// score of each item.
	SaveScheduling(ctx context.Context, items []*tutor.Item) error

	// ResetProgress clears all learning history and scheduling state.
	ResetProgress(ctx context.Context) error
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID        string
	Action           string // "start" or "end"
	Tag              string
	ItemsActive      int
	ItemsIntroduced  int
	QuestionsAsked   int
	CorrectAnswers   int
	IncorrectAnswers int
	DurationSecs     int
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose and model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendInteraction records an answer outcome for an item.
	AppendInteraction(ctx context.Context, sessionID string, id tutor.ItemID, in tutor.Interaction) error

	// AppendAsked records that an item was chosen as a question target.
	AppendAsked(ctx context.Context, sessionID string, id tutor.ItemID, at time.Time) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// RecentSessions returns the most recent "end" events, newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose and model.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

// SnapshotData captures where a learner left off so a session can resume.
type SnapshotData struct {
	Version     int      `json:"version"`
	SessionID   string   `json:"session_id"`
	Tag         string   `json:"tag"`
	ActiveCount int      `json:"active_count"`
	ActiveIDs   []string `json:"active_ids,omitempty"`
	AutoMode    bool     `json:"auto_mode,omitempty"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// LatestForTag returns the most recent snapshot taken for tag, or nil.
	LatestForTag(ctx context.Context, tag string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
