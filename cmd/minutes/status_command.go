package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and pipeline stage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Minutes Daemon", colorize) {
				fmt.Fprintln(out, line)
			}

			daemonKind := statusOK
			daemonMsg := "running"
			if !status.Running {
				daemonKind = statusWarn
				daemonMsg = "not running"
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", daemonKind, daemonMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Store", statusInfo, status.StoreBackend, colorize))
			fmt.Fprintln(out, renderStatusLine("Uploads", statusInfo, status.UploadDir, colorize))
			fmt.Fprintln(out, renderStatusLine("Minutes", statusInfo, status.MinutesDir, colorize))

			if len(status.Stages) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(status.Stages))
				for _, stage := range pipeline.AllStages() {
					if count, ok := status.Stages[stage.String()]; ok {
						rows = append(rows, []string{stage.String(), fmt.Sprintf("%d", count)})
					}
				}
				fmt.Fprintln(out, renderTable([]string{"STAGE", "RECORDINGS"}, rows, 2))
			}
			return nil
		},
	}
}
