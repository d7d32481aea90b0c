package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"electric/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [db]",
		Short: "List solved passes stored in a history database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Debug.HistoryDB
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no history database given and debug.history_db is not set")
			}
			h, err := store.Open(path)
			if err != nil {
				return err
			}
			defer h.Close()

			entries, err := h.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSEQ\tTIME\tRESIDUAL\tBRANCHES")
			for _, e := range entries {
				parts := make([]string, 0, len(e.Pass.Branches))
				for _, b := range e.Pass.Branches {
					parts = append(parts, fmt.Sprintf("%s=%.6g(%s)", b.Name, b.Current, b.Direction))
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%.3g\t%s\n",
					e.ID, e.Pass.Seq, e.Pass.Time.Format(time.RFC3339), e.Pass.Residual, strings.Join(parts, " "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of passes to list (0 = all)")
	return cmd
}
