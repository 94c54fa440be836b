package audio

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Config selects and configures the narration player.
type Config struct {
	// Mute selects the Silent player.
	Mute bool

	// Command is the external player invocation. Default: DefaultCommand.
	Command []string

	// MediaDir holds the clip files.
	// Default: $XDG_DATA_HOME/nepaligpa/media.
	MediaDir string
}

// ConfigFromEnv reads NEPALIGPA_AUDIO_CMD, NEPALIGPA_MEDIA_DIR and
// NEPALIGPA_MUTE, falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := Config{
		Command:  DefaultCommand,
		MediaDir: DefaultMediaDir(),
	}
	if c := os.Getenv("NEPALIGPA_AUDIO_CMD"); c != "" {
		cfg.Command = ParseCommand(c)
	}
	if d := os.Getenv("NEPALIGPA_MEDIA_DIR"); d != "" {
		cfg.MediaDir = d
	}
	if m := os.Getenv("NEPALIGPA_MUTE"); m == "1" || m == "true" {
		cfg.Mute = true
	}
	return cfg
}

// DefaultMediaDir returns the XDG-compliant media directory.
func DefaultMediaDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "media"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nepaligpa", "media")
}

// New builds the player described by cfg. Without a usable external
// command it logs a warning and falls back to Silent.
func New(cfg Config, logger *slog.Logger) Player {
	if cfg.Mute {
		return Silent{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Command) == 0 {
		cfg.Command = DefaultCommand
	}
	if _, err := exec.LookPath(cfg.Command[0]); err != nil {
		logger.Warn("audio player not found, narration disabled", "command", cfg.Command[0], "error", err)
		return Silent{}
	}
	return NewCommandPlayer(cfg.Command, cfg.MediaDir, logger)
}
