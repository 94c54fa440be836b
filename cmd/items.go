package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List stored words with their competency scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.ItemRepo().ListItems(cmd.Context(), tag)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No words stored. Run: nepaligpa catalog import")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("id", "word", "nepali", "romanized", "tags", "score", "answers", "introduced").
			StyleFunc(func(row, col int) lipgloss.Style {
				st := lipgloss.NewStyle().Padding(0, 1)
				if col == 5 || col == 6 {
					st = st.Align(lipgloss.Right)
				}
				return st
			})
		for _, it := range items {
			score := tutor.ComputeScore(it)
			mark := ""
			if score >= tutor.CompetentScore {
				mark = " ★"
			}
			introduced := "-"
			if it.IntroducedAt != nil {
				introduced = it.IntroducedAt.Local().Format("2006-01-02")
			}
			t.Row(string(it.ID), it.Name, it.TargetName, it.Romanized,
				strings.Join(it.Tags, ","),
				fmt.Sprintf("%.0f%s", score, mark),
				fmt.Sprintf("%d", len(it.History)),
				introduced)
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	itemsCmd.Flags().StringP("tag", "t", "", "Only list words with this tag")
}
