package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Progress) []Progress {
	t.Helper()
	var out []Progress
	timeout := time.After(10 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, p)
		case <-timeout:
			t.Fatal("playback channel did not close")
			return nil
		}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mediaDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}
	return dir
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestSilentPlay(t *testing.T) {
	got := collect(t, Silent{}.Play(context.Background(), []string{"a", "b"}))
	require.Len(t, got, 3)
	assert.Equal(t, Progress{Kind: ClipFinished, Index: 0, Clip: "a"}, got[0])
	assert.Equal(t, Progress{Kind: ClipFinished, Index: 1, Clip: "b"}, got[1])
	assert.Equal(t, Finished, got[2].Kind)
}

func TestSilentPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := collect(t, Silent{}.Play(ctx, []string{"a"}))
	for _, p := range got {
		assert.NotEqual(t, Finished, p.Kind)
	}
}

func TestResolve(t *testing.T) {
	dir := mediaDir(t, "ghoda.mp3", "gai.m4a", "bagh.wav", "sha_bas.ogg")
	p := NewCommandPlayer(nil, dir, quietLogger())

	tests := []struct {
		clip string
		want string
	}{
		{"ghoda", "ghoda.mp3"},
		{"gai", "gai.m4a"},
		{"bagh.wav", "bagh.wav"},
		{"sha_bas", "sha_bas.ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.clip, func(t *testing.T) {
			got, err := p.Resolve(tt.clip)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}

	_, err := p.Resolve("mriga")
	assert.True(t, errors.Is(err, ErrClipNotFound))
	_, err = p.Resolve("")
	assert.True(t, errors.Is(err, ErrClipNotFound))
}

func TestCommandPlayerSequence(t *testing.T) {
	requireCommand(t, "true")
	dir := mediaDir(t, "one.m4a", "two.m4a")
	p := NewCommandPlayer([]string{"true"}, dir, quietLogger())

	got := collect(t, p.Play(context.Background(), []string{"one", "missing", "two"}))
	require.Len(t, got, 4)
	assert.NoError(t, got[0].Err)
	assert.Equal(t, "missing", got[1].Clip)
	assert.True(t, errors.Is(got[1].Err, ErrClipNotFound))
	assert.NoError(t, got[2].Err)
	assert.Equal(t, Finished, got[3].Kind)
}

func TestCommandPlayerCancel(t *testing.T) {
	requireCommand(t, "sh")
	dir := mediaDir(t, "long.m4a")
	p := NewCommandPlayer([]string{"sh", "-c", "sleep 5", "--"}, dir, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Play(ctx, []string{"long", "long"})
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	got := collect(t, ch)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, []string{"mpv", "--no-video"}, ParseCommand("  mpv   --no-video "))
	assert.Empty(t, ParseCommand(""))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("NEPALIGPA_AUDIO_CMD", "afplay -q 1")
	t.Setenv("NEPALIGPA_MEDIA_DIR", "/srv/clips")
	t.Setenv("NEPALIGPA_MUTE", "true")

	cfg := ConfigFromEnv()
	assert.Equal(t, []string{"afplay", "-q", "1"}, cfg.Command)
	assert.Equal(t, "/srv/clips", cfg.MediaDir)
	assert.True(t, cfg.Mute)
}

func TestDefaultMediaDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/nepaligpa/media", DefaultMediaDir())
}

func TestNewFallsBackToSilent(t *testing.T) {
	_, ok := New(Config{Mute: true}, quietLogger()).(Silent)
	assert.True(t, ok, "muted config should be silent")

	_, ok = New(Config{Command: []string{"no-such-player-binary"}}, quietLogger()).(Silent)
	assert.True(t, ok, "missing binary should be silent")
}
