package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/llm"
)

var dictionary = map[string][2]string{
	"elephant": {"हात्ती", "hatti"},
	"monkey":   {"बाँदर", "bandar"},
	"fish":     {"माछा", "machha"},
	"bird":     {"चरा", "chara"},
	"rabbit":   {"खरायो", "kharayo"},
	"frog":     {"भ्यागुतो", "bhyaguto"},
	"horse":    {"घोडा", "ghoda"},
}

// requested extracts the "- word" lines of a draft prompt.
func requested(req llm.Request) []string {
	var words []string
	for _, line := range strings.Split(req.Messages[0].Content, "\n") {
		if w, ok := strings.CutPrefix(line, "- "); ok {
			words = append(words, w)
		}
	}
	return words
}

// translator answers from dictionary, applying override per word.
func translator(override map[string]map[string]string) func(llm.Request) llm.MockResponse {
	return func(req llm.Request) llm.MockResponse {
		var out []map[string]string
		for _, w := range requested(req) {
			d, ok := dictionary[w]
			if !ok {
				continue
			}
			entry := map[string]string{"english": w, "nepali": d[0], "romanized": d[1]}
			for k, v := range override[w] {
				entry[k] = v
			}
			out = append(out, entry)
		}
		if len(out) == 0 {
			return llm.MockResponse{Err: errors.New("nothing to translate")}
		}
		b, _ := json.Marshal(map[string]any{"words": out})
		return llm.MockResponse{Content: b, Usage: llm.Usage{TotalTokens: 10}}
	}
}

func newDrafter(respond func(llm.Request) llm.MockResponse, batch int) (*Drafter, *llm.MockProvider) {
	mock := llm.NewMockProvider()
	mock.Respond = respond
	cfg := DefaultConfig()
	cfg.BatchSize = batch
	return New(mock, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestDraftBatchesKeepInputOrder(t *testing.T) {
	d, mock := newDrafter(translator(nil), 2)
	words := []string{"elephant", "monkey", "fish", "bird", "rabbit"}

	res, err := d.Draft(context.Background(), words, Options{Tag: "animals"})
	require.NoError(t, err)

	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, res.Catalog.Items, 5)
	for i, e := range res.Catalog.Items {
		assert.Equal(t, words[i], e.Name)
		assert.Equal(t, catalog.Slug(words[i]), e.ID)
		assert.Equal(t, dictionary[words[i]][0], e.NepaliName)
		assert.Equal(t, []string{"animals"}, e.Tags)
	}
	assert.Equal(t, "animals", res.Catalog.Name)
	assert.Empty(t, res.Rejected)

	for _, call := range mock.Calls {
		assert.Same(t, WordBatchSchema, call.Schema)
		assert.Contains(t, call.Messages[0].Content, "Category: animals")
	}
}

func TestDraftSkipsExistingAndRepeats(t *testing.T) {
	d, mock := newDrafter(translator(nil), 8)
	existing := catalog.Builtin()

	res, err := d.Draft(context.Background(), []string{" Horse ", "frog", "FROG", ""}, Options{Existing: existing})
	require.NoError(t, err)

	assert.Equal(t, []string{"horse", "frog"}, res.Skipped)
	require.Len(t, res.Catalog.Items, 1)
	assert.Equal(t, "भ्यागुतो", res.Catalog.Items[0].NepaliName)
	assert.Nil(t, res.Catalog.Items[0].Tags)

	prompt := mock.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "घोडा", "existing Nepali words are listed as taken")
	assert.NotContains(t, prompt, "Category:")
}

func TestDraftNothingToDo(t *testing.T) {
	d, mock := newDrafter(translator(nil), 8)
	_, err := d.Draft(context.Background(), []string{"horse"}, Options{Existing: catalog.Builtin()})
	assert.ErrorIs(t, err, ErrNoWords)
	assert.Zero(t, mock.CallCount())
}

func TestDraftRejectsBadAnswers(t *testing.T) {
	d, _ := newDrafter(translator(map[string]map[string]string{
		"monkey": {"nepali": "bandar"},
		"bird":   {"nepali": "माछा"},
		"rabbit": {"english": "hare"},
	}), 8)

	res, err := d.Draft(context.Background(), []string{"fish", "monkey", "bird", "rabbit", "frog"}, Options{})
	require.NoError(t, err)

	var names []string
	for _, e := range res.Catalog.Items {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"fish", "frog"}, names)

	reasons := map[string]string{}
	for _, r := range res.Rejected {
		reasons[r.Word] = r.Reason
	}
	assert.Contains(t, reasons["monkey"], "not Devanagari")
	assert.Contains(t, reasons["bird"], "already used by fish")
	assert.Equal(t, "missing from the response", reasons["rabbit"])
}

func TestDraftFailedBatchFailsRun(t *testing.T) {
	var calls atomic.Int32
	d, _ := newDrafter(func(req llm.Request) llm.MockResponse {
		calls.Add(1)
		if requested(req)[0] == "fish" {
			return llm.MockResponse{Err: &llm.ErrUnauthorized{Provider: "mock", Err: errors.New("401")}}
		}
		return translator(nil)(req)
	}, 1)

	_, err := d.Draft(context.Background(), []string{"elephant", "fish"}, Options{})
	var unauth *llm.ErrUnauthorized
	require.ErrorAs(t, err, &unauth)
	assert.Contains(t, err.Error(), "(fish)")
}

func TestDraftInvalidSchemaResponse(t *testing.T) {
	d, _ := newDrafter(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: json.RawMessage(`{"words":[{"english":"fish"}]}`)}
	}, 8)

	_, err := d.Draft(context.Background(), []string{"fish"}, Options{})
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestDraftOutputRoundTripsThroughCatalog(t *testing.T) {
	d, _ := newDrafter(translator(nil), 3)
	res, err := d.Draft(context.Background(), []string{"elephant", "monkey"}, Options{Tag: "zoo", Name: "zoo animals"})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, res.Catalog.Write(&buf))
	back, err := catalog.Parse([]byte(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "zoo animals", back.Name)
	assert.Equal(t, "this_is_a-elephant", back.Items[0].ResolvedClips().Intro)
}

func TestIsDevanagari(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"घोडा", true},
		{"भ्यागुतो", true},
		{"हात्ती ।", true},
		{"ghoda", false},
		{"घोडा1", false},
		{"", false},
		{" ", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, isDevanagari(tt.in))
		})
	}
}

func TestChunk(t *testing.T) {
	got := chunk([]string{"a", "b", "c", "d", "e"}, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, got)
	assert.Nil(t, chunk(nil, 3))
}
