package cmd

import (
	"github.com/spf13/cobra"
)

var learnOpts learnFlags

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start a learning session",
	Long: "Start a learning session. In a terminal the full-screen tutor opens;\n" +
		"when input or output is redirected the session runs in line mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactive() {
			return runConsole(cmd, learnOpts)
		}
		return runApp(cmd, learnOpts, true)
	},
}

var drillOpts learnFlags

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Run a session in line mode",
	Long: "Run a session reading one command per line: n (new word), q (ask), 1-99 (answer),\n" +
		"s (shuffle), r (replay), a/p (auto on/off), l (list), x (quit).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, drillOpts)
	},
}

func addSessionFlags(cmd *cobra.Command, f *learnFlags) {
	cmd.Flags().StringVarP(&f.tag, "tag", "t", "", "Only learn words with this tag")
	cmd.Flags().BoolVarP(&f.auto, "auto", "a", false, "Start in auto mode")
	cmd.Flags().BoolVarP(&f.resume, "resume", "r", false, "Bring back the words of the last session")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for question selection (0 picks one)")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "Do not play narration")
}

func init() {
	addSessionFlags(learnCmd, &learnOpts)
	addSessionFlags(drillCmd, &drillOpts)
}
