package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/nepaligpa/internal/app"
	"github.com/abhisek/nepaligpa/internal/audio"
	"github.com/abhisek/nepaligpa/internal/console"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/store"
)

// learnFlags are the session options shared by learn and drill.
type learnFlags struct {
	tag    string
	auto   bool
	resume bool
	seed   uint64
	mute   bool
}

func (f learnFlags) options(cmd *cobra.Command, logger *slog.Logger) session.Options {
	cfg := audio.ConfigFromEnv()
	if dir, _ := cmd.Flags().GetString("media"); dir != "" {
		cfg.MediaDir = dir
	}
	if f.mute {
		cfg.Mute = true
	}
	return session.Options{
		Tag:    f.tag,
		Auto:   f.auto,
		Resume: f.resume,
		Seed:   f.seed,
		Player: audio.New(cfg, logger),
		Logger: logger,
	}
}

func repos(st *store.Store) session.Repos {
	return session.Repos{Items: st.ItemRepo(), Events: st.EventRepo(), Snapshots: st.SnapshotRepo()}
}

// interactive reports whether stdin and stdout are terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// runApp opens the store and launches the TUI. With direct set it starts
// a session instead of showing the home screen.
func runApp(cmd *cobra.Command, flags learnFlags, direct bool) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logger, closeLog, err := newLogger(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	return app.Run(ctx, app.Deps{
		Repos:   repos(st),
		Session: flags.options(cmd, logger),
		Direct:  direct,
	})
}

// runConsole runs one session in line mode on stdin and stdout and prints
// the summary when it ends.
func runConsole(cmd *cobra.Command, flags learnFlags) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logger, closeLog, err := newLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	sess, err := session.Start(ctx, repos(st), flags.options(cmd, logger))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	runErr := console.New(sess.Engine, cmd.InOrStdin(), out, logger).Run(ctx)

	// Save progress even when interrupted.
	sum := sess.End(context.WithoutCancel(ctx))
	fmt.Fprintf(out, "\n%d/%d words · %d asked · %d correct · %d wrong · %.0f%% accuracy\n",
		sum.Active, sum.Total, sum.Asked, sum.Correct, sum.Incorrect, sum.Accuracy*100)
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
