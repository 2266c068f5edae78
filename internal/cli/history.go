package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/goblocks/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var (
		flagJournal string
		flagBlock   string
		flagLimit   int
		flagPrune   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent block updates from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagJournal == "" {
				return fmt.Errorf("--journal is required")
			}

			journal, err := store.NewSQLiteJournal(flagJournal, logger)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer journal.Close()
			if err := journal.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate journal: %w", err)
			}

			if flagPrune > 0 {
				n, err := journal.Prune(cmd.Context(), time.Now().Add(-flagPrune))
				if err != nil {
					return fmt.Errorf("prune journal: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d records\n", n)
			}

			recs, err := journal.ListRecent(cmd.Context(), flagBlock, flagLimit)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tBLOCK\tTRIGGER\tEXIT\tTEXT")
			for _, rec := range recs {
				name := rec.Name
				if rec.Instance != "" {
					name += "[" + rec.Instance + "]"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					rec.CreatedAt.Local().Format(time.RFC3339),
					name, rec.Trigger, rec.ExitCode, rec.FullText)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&flagJournal, "journal", os.Getenv("GOBLOCKS_JOURNAL"), "Journal database path (or GOBLOCKS_JOURNAL env)")
	cmd.Flags().StringVar(&flagBlock, "block", "", "Filter by block name")
	cmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum records to show")
	cmd.Flags().DurationVar(&flagPrune, "prune", 0, "Delete records older than this duration first")

	return cmd
}
