package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		ctx := cmd.Context()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.ItemRepo().ListItems(ctx, tag)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		sessions, err := s.EventRepo().RecentSessions(ctx, 0)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		var introduced, learned, answers, correct int
		for _, it := range items {
			if it.IntroducedAt != nil {
				introduced++
			}
			if tutor.ComputeScore(it) >= tutor.CompetentScore {
				learned++
			}
			for _, in := range it.History {
				answers++
				if in.Outcome.IsCorrect() {
					correct++
				}
			}
		}

		var played time.Duration
		var asked, count int
		for _, ev := range sessions {
			if tag != "" && ev.Tag != tag {
				continue
			}
			count++
			played += time.Duration(ev.DurationSecs) * time.Second
			asked += ev.QuestionsAsked
		}

		out := cmd.OutOrStdout()
		scope := "all words"
		if tag != "" {
			scope = "tag " + tag
		}
		fmt.Fprintf(out, "Statistics (%s)\n\n", scope)
		fmt.Fprintf(out, "  Words:       %d\n", len(items))
		fmt.Fprintf(out, "  Introduced:  %d\n", introduced)
		fmt.Fprintf(out, "  Learned:     %d (score ≥ %.0f)\n", learned, float64(tutor.CompetentScore))
		if answers > 0 {
			fmt.Fprintf(out, "  Answers:     %d (%.0f%% correct)\n", answers, 100*float64(correct)/float64(answers))
		} else {
			fmt.Fprintf(out, "  Answers:     0\n")
		}
		fmt.Fprintf(out, "  Sessions:    %d\n", count)
		fmt.Fprintf(out, "  Questions:   %d\n", asked)
		fmt.Fprintf(out, "  Time spent:  %s\n", played.Round(time.Second))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("tag", "t", "", "Only count words and sessions with this tag")
}
