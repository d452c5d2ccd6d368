package main

import (
	"github.com/hyperjump/pdfqa/internal/cli"
	"github.com/spf13/cobra"
)

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF to the running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			resp, err := flags.client().Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cli.WriteUpload(cmd.OutOrStdout(), resp, format)
		},
	}
}

func newChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the running server a question about the uploaded PDF",
		Long:  "Ask a question. All arguments are joined, so quotes are optional.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			question, err := requireQuestion(args)
			if err != nil {
				return err
			}
			answer, err := flags.client().Chat(cmd.Context(), question)
			if err != nil {
				return err
			}
			return cli.WriteAnswer(cmd.OutOrStdout(), answer, format)
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which document the server has loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			st, err := flags.client().Status(cmd.Context())
			if err != nil {
				return err
			}
			return cli.WriteStatus(cmd.OutOrStdout(), st, format)
		},
	}
}
