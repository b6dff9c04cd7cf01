package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent solves from the history database",
	Run: func(cmd *cobra.Command, args []string) {
		hist, err := openHistory(cmd.Context())
		if err != nil {
			Die("Failed to open history", err)
		}
		if hist == nil {
			Die("No history database configured", errors.New("set --db, database_url, DATABASE_URL or POSTGRES_HOST"))
		}
		recs, err := hist.Recent(cmd.Context(), historyLimit)
		if err != nil {
			Die("Failed to list solves", err)
		}
		printHistory(os.Stdout, recs)
	},
}

func printHistory(out io.Writer, recs []store.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No solves recorded yet.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSCAN\tMOVES\tRESULT")
	fmt.Fprintln(w, "--\t----\t----\t-----\t------")
	for _, r := range recs {
		result := r.Solution
		if r.Error != "" {
			result = "error: " + r.Error
		} else if result == "" {
			result = "(already solved)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.SolvedAt.Local().Format("2006-01-02 15:04"), r.ScanDuration.Round(100*time.Millisecond), r.Moves, result)
	}
	w.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of solves to show")
	rootCmd.AddCommand(historyCmd)
}
