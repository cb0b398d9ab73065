package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/quorumbot/bot"
	"github.com/kbukum/quorumbot/version"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func (o *rootOptions) load() (*bot.AppConfig, error) {
	return bot.LoadConfig(o.configFile, o.envFile)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "quorumbot",
		Short:         "Ask several LLM backends at once and merge their answers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: discovered config.yml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env", "", ".env file (default: discovered .env)")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newAskCmd(opts),
		newChatCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
}
