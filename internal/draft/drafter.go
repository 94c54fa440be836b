// Package draft turns lists of English words into catalog entries by asking
// a language model for the Nepali word and its romanization.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/llm"
)

// ErrNoWords is returned when nothing is left to draft.
var ErrNoWords = errors.New("no new words to draft")

// Config tunes batching and the model request.
type Config struct {
	BatchSize   int
	Concurrency int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the batching used by the CLI.
func DefaultConfig() Config {
	return Config{BatchSize: 8, Concurrency: 3, MaxTokens: 1024, Temperature: 0.2}
}

// Options describe one drafting run.
type Options struct {
	// Tag is added to every drafted entry and given to the model as context.
	Tag string
	// Existing entries are skipped and their Nepali words reserved.
	Existing *catalog.Catalog
	// Name of the resulting catalog. Defaults to Tag.
	Name string
}

// Rejection is a word the model answered unusably.
type Rejection struct {
	Word   string
	Reason string
}

// Result is the outcome of a drafting run.
type Result struct {
	Catalog  *catalog.Catalog
	Rejected []Rejection
	// Skipped words were already in Options.Existing or repeated.
	Skipped []string
}

// Drafter drafts catalog entries.
type Drafter struct {
	provider llm.Provider
	config   Config
	log      *slog.Logger
}

// New creates a Drafter.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Drafter {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Drafter{provider: provider, config: cfg, log: logger}
}

type wordOutput struct {
	English   string `json:"english"`
	Nepali    string `json:"nepali"`
	Romanized string `json:"romanized"`
}

type batchOutput struct {
	Words []wordOutput `json:"words"`
}

// Draft asks the model about words in batches, several batches at a time,
// and assembles the answers in input order. A failed batch fails the run.
func (d *Drafter) Draft(ctx context.Context, words []string, opts Options) (*Result, error) {
	res := &Result{}
	todo, taken := d.plan(words, opts.Existing, res)
	if len(todo) == 0 {
		return res, ErrNoWords
	}

	batches := chunk(todo, d.config.BatchSize)
	answers := make([]map[string]wordOutput, len(batches))

	g, gctx := errgroup.WithContext(llm.WithPurpose(ctx, llm.PurposeDraft))
	g.SetLimit(d.config.Concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			out, err := d.ask(gctx, batch, opts.Tag, taken)
			if err != nil {
				return fmt.Errorf("batch %d (%s): %w", i+1, strings.Join(batch, ", "), err)
			}
			answers[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = opts.Tag
	}
	res.Catalog = &catalog.Catalog{Name: name}
	used := make(map[string]string, len(taken))
	for _, t := range taken {
		used[t] = "the existing catalog"
	}
	for i, batch := range batches {
		for _, w := range batch {
			e, reason := d.entry(w, answers[i], used, opts.Tag)
			if reason != "" {
				d.log.Warn("draft rejected", "word", w, "reason", reason)
				res.Rejected = append(res.Rejected, Rejection{Word: w, Reason: reason})
				continue
			}
			used[e.NepaliName] = w
			res.Catalog.Items = append(res.Catalog.Items, e)
		}
	}
	if err := res.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("drafted catalog: %w", err)
	}
	return res, nil
}

// plan normalizes the requested words and drops ones already present.
func (d *Drafter) plan(words []string, existing *catalog.Catalog, res *Result) (todo, taken []string) {
	seen := map[string]bool{}
	if existing != nil {
		for _, e := range existing.Items {
			seen[e.ID] = true
			taken = append(taken, e.NepaliName)
		}
	}
	for _, w := range words {
		w = strings.ToLower(strings.Join(strings.Fields(w), " "))
		if w == "" {
			continue
		}
		id := catalog.Slug(w)
		if id == "" || seen[id] {
			res.Skipped = append(res.Skipped, w)
			continue
		}
		seen[id] = true
		todo = append(todo, w)
	}
	return todo, taken
}

func (d *Drafter) ask(ctx context.Context, batch []string, tag string, taken []string) (map[string]wordOutput, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(batch, tag, taken), WordBatchSchema, d.config.MaxTokens)
	req.Temperature = d.config.Temperature

	resp, err := d.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	out := make(map[string]wordOutput, len(raw.Words))
	for _, w := range raw.Words {
		out[strings.ToLower(strings.TrimSpace(w.English))] = w
	}
	d.log.Debug("draft batch", "words", len(batch), "answered", len(out), "tokens", resp.Usage.TotalTokens)
	return out, nil
}

// entry checks one answer and converts it, or returns why it was rejected.
func (d *Drafter) entry(word string, answers map[string]wordOutput, used map[string]string, tag string) (catalog.Entry, string) {
	a, ok := answers[word]
	if !ok {
		return catalog.Entry{}, "missing from the response"
	}
	nepali := strings.TrimSpace(a.Nepali)
	if !isDevanagari(nepali) {
		return catalog.Entry{}, fmt.Sprintf("%q is not Devanagari", nepali)
	}
	if owner, dup := used[nepali]; dup {
		return catalog.Entry{}, fmt.Sprintf("%s is already used by %s", nepali, owner)
	}
	e := catalog.Entry{
		ID:         catalog.Slug(word),
		Name:       word,
		NepaliName: nepali,
		Romanized:  strings.ToLower(strings.TrimSpace(a.Romanized)),
	}
	if tag != "" {
		e.Tags = []string{tag}
	}
	return e, ""
}

// isDevanagari reports whether s has letters and all of them are
// Devanagari. Spaces, the danda and zero-width joiners are allowed.
func isDevanagari(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '।' || r == '\u200c' || r == '\u200d':
		case unicode.In(r, unicode.Devanagari):
			letters++
		default:
			return false
		}
	}
	return letters > 0
}

func chunk(words []string, size int) [][]string {
	var out [][]string
	for len(words) > size {
		out = append(out, words[:size:size])
		words = words[size:]
	}
	if len(words) > 0 {
		out = append(out, words)
	}
	return out
}
