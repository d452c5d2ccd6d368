// Package main is the pdfqa CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperjump/pdfqa/internal/cli"
	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// globalFlags are shared by all subcommands.
type globalFlags struct {
	configPath string
	debug      bool
	serverURL  string
	output     string
	timeout    time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "pdfqa",
		Short:         "Ask questions about a PDF",
		Long:          "pdfqa indexes one PDF at a time and answers questions using only that document's content.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", defaultConfigPath, "config file path")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.serverURL, "server", "http://localhost:8000", "server URL for client commands")
	pf.StringVarP(&flags.output, "output", "o", "text", "output format: text or json")
	pf.DurationVar(&flags.timeout, "timeout", 5*time.Minute, "client request timeout")

	root.AddCommand(
		newServeCmd(flags),
		newUploadCmd(flags),
		newChatCmd(flags),
		newStatusCmd(flags),
		newAskCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// loadConfig loads the config at path. When path is the default and no such file exists,
// built-in defaults are used. Returns the config and the path actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return cfg, abs, nil
}

func (f *globalFlags) client() *cli.Client {
	return cli.NewClient(f.serverURL, f.timeout)
}

func (f *globalFlags) format() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(f.output)
}

func requireQuestion(args []string) (string, error) {
	q := cli.BuildQuestion(args)
	if q == "" {
		return "", fmt.Errorf("question is required")
	}
	return q, nil
}
