package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/draft"
	"github.com/abhisek/nepaligpa/internal/llm"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import, export and draft word catalogs",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import a catalog into the database (the built-in animals without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := catalog.Builtin()
		if len(args) == 1 {
			var err error
			if c, err = catalog.Load(args[0]); err != nil {
				return err
			}
		}
		if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
			c = c.Filter(tag)
		}
		if len(c.Items) == 0 {
			return errors.New("catalog has no items to import")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ItemRepo().UpsertItems(cmd.Context(), c.TutorItems()); err != nil {
			return fmt.Errorf("import items: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words from %q (tags: %s)\n",
			len(c.Items), c.Name, strings.Join(c.Tags(), ", "))
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored words as a catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		out, _ := cmd.Flags().GetString("output")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.ItemRepo().ListItems(cmd.Context(), tag)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		name := tag
		if name == "" {
			name = "nepaligpa"
		}
		return writeCatalog(cmd, catalog.FromItems(name, items), out)
	},
}

var catalogDraftCmd = &cobra.Command{
	Use:   "draft [word...]",
	Short: "Draft catalog entries for English words with an LLM",
	Long: "Draft catalog entries for English words with an LLM. Words come from the\n" +
		"arguments or, with --from, one per line from a file (- for stdin). Words\n" +
		"already stored are skipped. Review the output before importing it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tag, _ := cmd.Flags().GetString("tag")
		from, _ := cmd.Flags().GetString("from")
		out, _ := cmd.Flags().GetString("output")

		words := args
		if from != "" {
			more, err := readWords(cmd, from)
			if err != nil {
				return err
			}
			words = append(words, more...)
		}
		if len(words) == 0 {
			return errors.New("no words given; pass them as arguments or with --from")
		}

		cfg, err := llm.Resolve()
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		logger, closeLog, err := newLogger(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		provider, err := llm.NewProvider(ctx, cfg, s.EventRepo(), logger)
		if err != nil {
			return err
		}

		stored, err := s.ItemRepo().ListItems(ctx, "")
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Drafting %d words with %s (%s)...\n", len(words), cfg.Provider, cfg.Model())
		res, err := draft.New(provider, draft.DefaultConfig(), logger).Draft(ctx, words, draft.Options{
			Tag:      tag,
			Existing: catalog.FromItems("stored", stored),
		})
		if errors.Is(err, draft.ErrNoWords) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Every word is already in the catalog.")
			return nil
		}
		if err != nil {
			return err
		}

		for _, w := range res.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: already in the catalog\n", w)
		}
		for _, r := range res.Rejected {
			fmt.Fprintf(cmd.ErrOrStderr(), "rejected %s: %s\n", r.Word, r.Reason)
		}
		if len(res.Catalog.Items) == 0 {
			return errors.New("no usable entries were drafted")
		}
		return writeCatalog(cmd, res.Catalog, out)
	},
}

func writeCatalog(cmd *cobra.Command, c *catalog.Catalog, path string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := c.Write(w); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if path != "" && path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d words to %s\n", len(c.Items), path)
	}
	return nil
}

func readWords(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()
		r = f
	}
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

func init() {
	catalogImportCmd.Flags().StringP("tag", "t", "", "Only import entries with this tag")
	catalogExportCmd.Flags().StringP("tag", "t", "", "Only export words with this tag")
	catalogExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	catalogDraftCmd.Flags().StringP("tag", "t", "", "Tag for the drafted words, also given to the model as a hint")
	catalogDraftCmd.Flags().String("from", "", "Read words from a file, one per line (- for stdin)")
	catalogDraftCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogDraftCmd)
}
