package main

import (
	"path/filepath"

	"github.com/hyperjump/pdfqa/internal/cli"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAskCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file.pdf> <question>",
		Short: "Index a PDF locally and answer one question without a server",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			question, err := requireQuestion(args[1:])
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			// logs go to stderr so stdout stays parseable
			level := "warn"
			if cfg.Debug || flags.debug {
				level = "debug"
			}
			logger, err := utils.NewLoggerWithLevel(level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			path := args[0]
			info, err := app.Session.Load(ctx, filepath.Base(path), path)
			if err != nil {
				return err
			}
			logger.Debug("document ready", zap.String("name", info.Name), zap.Int("segments", info.Segments))
			answer, err := app.Session.Answer(ctx, question)
			if err != nil {
				return err
			}
			return cli.WriteAnswer(cmd.OutOrStdout(), answer, format)
		},
	}
}
