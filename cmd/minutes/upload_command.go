package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <audio-file>",
		Short: "Upload an MP3 or WAV recording to the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s\n", resp.Filename)
			fmt.Fprintf(out, "Record ID: %s\n", resp.ID)
			return nil
		},
	}
}
