package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show a recording's transcripts and action items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			rec, err := client.Record(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(rec.Title, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("ID", statusInfo, rec.ID, colorize))
			fmt.Fprintln(out, renderStatusLine("Filename", statusInfo, rec.Filename, colorize))
			fmt.Fprintln(out, renderStatusLine("Stage", statusInfo, rec.Stage, colorize))
			if rec.MinutesPath != "" {
				fmt.Fprintln(out, renderStatusLine("Minutes", statusOK, rec.MinutesPath, colorize))
			}

			if rec.RawTranscript != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Raw transcript:")
				fmt.Fprintln(out, indent(rec.RawTranscript))
			}
			if rec.EditedTranscript != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Edited transcript:")
				fmt.Fprintln(out, indent(rec.EditedTranscript))
			}
			if len(rec.ActionItems) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Action items:")
				for _, item := range rec.ActionItems {
					fmt.Fprintf(out, "  - %s\n", item)
				}
			}
			return nil
		},
	}
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
