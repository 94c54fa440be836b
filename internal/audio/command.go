package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand is the external player used when none is configured.
var DefaultCommand = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}

// Extensions tried, in order, when a clip name has none.
var Extensions = []string{".m4a", ".mp3", ".wav", ".ogg"}

// CommandPlayer plays clips by running an external program once per clip
// with the clip's file path as the final argument.
type CommandPlayer struct {
	Command  []string
	MediaDir string
	Logger   *slog.Logger
}

// NewCommandPlayer creates a player for files under mediaDir. An empty
// command selects DefaultCommand.
func NewCommandPlayer(command []string, mediaDir string, logger *slog.Logger) *CommandPlayer {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandPlayer{Command: command, MediaDir: mediaDir, Logger: logger}
}

func (p *CommandPlayer) Play(ctx context.Context, clips []string) <-chan Progress {
	ch := make(chan Progress, len(clips)+1)
	go func() {
		defer close(ch)
		for i, clip := range clips {
			err := p.playOne(ctx, clip)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				p.Logger.Warn("clip playback failed", "clip", clip, "error", err)
			}
			ch <- Progress{Kind: ClipFinished, Index: i, Clip: clip, Err: err}
		}
		ch <- Progress{Kind: Finished, Index: len(clips)}
	}()
	return ch
}

func (p *CommandPlayer) playOne(ctx context.Context, clip string) error {
	path, err := p.Resolve(clip)
	if err != nil {
		return err
	}
	args := append(append([]string{}, p.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", p.Command[0], err)
	}
	return nil
}

// Resolve maps a clip name to a file in the media directory.
func (p *CommandPlayer) Resolve(clip string) (string, error) {
	if clip == "" {
		return "", fmt.Errorf("%w: empty clip name", ErrClipNotFound)
	}
	base := clip
	if !filepath.IsAbs(base) {
		base = filepath.Join(p.MediaDir, clip)
	}

	candidates := []string{base}
	if filepath.Ext(clip) == "" {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, base+ext)
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s (looked in %s)", ErrClipNotFound, clip, p.MediaDir)
}

// ParseCommand splits a command line from configuration into arguments.
func ParseCommand(s string) []string {
	return strings.Fields(s)
}
