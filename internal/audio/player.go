// Package audio plays narration clips for the tutor.
package audio

import (
	"context"
	"errors"
)

// ErrClipNotFound is reported when a clip has no playable file.
var ErrClipNotFound = errors.New("audio: clip not found")

// Kind distinguishes progress events.
type Kind int

const (
	// ClipFinished fires after each clip in a sequence, even if it failed.
	ClipFinished Kind = iota
	// Finished fires once after the last clip.
	Finished
)

// Progress reports playback of a clip sequence.
type Progress struct {
	Kind  Kind
	Index int
	Clip  string
	Err   error
}

// Player plays a sequence of clips in order.
//
// The returned channel receives one ClipFinished per clip followed by a
// single Finished, then closes. Cancelling ctx stops playback; the channel
// closes without Finished. The channel is buffered so the player never
// blocks on a reader that has stopped listening.
type Player interface {
	Play(ctx context.Context, clips []string) <-chan Progress
}

// Silent completes every sequence immediately without output.
type Silent struct{}

func (Silent) Play(ctx context.Context, clips []string) <-chan Progress {
	ch := make(chan Progress, len(clips)+1)
	for i, c := range clips {
		ch <- Progress{Kind: ClipFinished, Index: i, Clip: c}
	}
	if ctx.Err() == nil {
		ch <- Progress{Kind: Finished, Index: len(clips)}
	}
	close(ch)
	return ch
}
