package commands

import (
	"fmt"
	"io"
	"strconv"
	"usydrc/lib/results"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showRaw bool

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the snapshot file as-is.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [--raw]",
	Short: "Shows the results recorded so far.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		store := newStore(cfg)

		if showRaw {
			contents, err := store.Contents(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), contents)
			return nil
		}

		records, err := store.Load(ctx)
		if err != nil {
			return err
		}
		renderRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

func renderRecords(out io.Writer, records []results.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "Marks aren't out yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Subject", "Grade", "Mark"})
	for _, r := range records {
		mark := "-"
		if r.Released {
			mark = strconv.Itoa(r.Mark)
		}
		t.AppendRow(table.Row{r.Subject, r.Grade, mark})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})
	t.Render()
}
