package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nepaligpa/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nepaligpa",
	Short: "Learn Nepali words with an adaptive tutor",
	Long: "nepaligpa teaches young learners Nepali words: it introduces words one at a time,\n" +
		"asks where each one is, and spends more time on the words that are not learned yet.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, learnFlags{}, false)
	},
}

// Execute runs the command tree. ctx is canceled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NEPALIGPA_DB env var)")
	rootCmd.PersistentFlags().String("media", "", "Directory with narration clips (overrides NEPALIGPA_MEDIA_DIR env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then NEPALIGPA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by the flags.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newLogger builds the slog logger. The TUI owns the terminal, so with
// toFile set logs go to NEPALIGPA_LOG or a file next to the database;
// otherwise they go to stderr. The returned func closes the file.
func newLogger(cmd *cobra.Command, toFile bool) (*slog.Logger, func(), error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelName))); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	path := os.Getenv("NEPALIGPA_LOG")
	if path == "" {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(filepath.Dir(dbPath), "nepaligpa.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), func() { f.Close() }, nil
}
