package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List recordings and their pipeline stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			records, err := client.Records(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No recordings registered.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					shortID(rec.ID),
					rec.Title,
					rec.Stage,
					strconv.Itoa(rec.ActionItemCount),
					rec.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "TITLE", "STAGE", "ACTIONS", "UPDATED"}, rows, 4))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
