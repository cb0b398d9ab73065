package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/quorumbot/bootstrap"
	"github.com/kbukum/quorumbot/bot"
	"github.com/kbukum/quorumbot/transport"
)

const consoleShutdownTimeout = 5 * time.Second

func newAskCmd(opts *rootOptions) *cobra.Command {
	var models []string
	cmd := &cobra.Command{
		Use:   "ask [--models a,b] <question...>",
		Short: "Ask the quorum (or selected models) one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			text := "q1 " + question
			if len(models) > 0 {
				text = fmt.Sprintf("q2(%s) %s", strings.Join(models, ","), question)
			}
			return runConsole(cmd, opts, func(ctx context.Context, console *transport.Console, d *bot.Dispatcher) error {
				d.Handle(ctx, transport.Event{
					ChatID:     console.ChatID,
					MessageID:  1,
					AuthorID:   console.AuthorID,
					AuthorName: console.AuthorName,
					Text:       text,
				})
				return console.Flush()
			})
		},
	}
	cmd.Flags().StringSliceVar(&models, "models", nil, "ask only these backends by alias")
	return cmd
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var showEdits bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot from the terminal, one message per line",
		Long: "Every line read from stdin is handled like a chat message: q1, q2(...), " +
			"start_battle and stop_battle work as in Telegram, anything else is archived.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, opts, func(ctx context.Context, console *transport.Console, d *bot.Dispatcher) error {
				console.ShowEdits = showEdits
				return console.Receive(ctx, d)
			})
		},
	}
	cmd.Flags().BoolVar(&showEdits, "show-edits", false, "print status updates as they happen")
	return cmd
}

// runConsole builds a dispatcher over the terminal with in-memory stores
// and runs task as a bootstrap task.
func runConsole(cmd *cobra.Command, opts *rootOptions,
	task func(ctx context.Context, console *transport.Console, d *bot.Dispatcher) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	// stdout carries the answers.
	cfg.Logging.Output = "stderr"
	app, err := bootstrap.NewApp(cfg, bootstrap.WithGracefulTimeout(consoleShutdownTimeout))
	if err != nil {
		return err
	}
	c, err := newCore(cfg, app.Logger, nil)
	if err != nil {
		return err
	}

	console := transport.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	botCfg := cfg.Bot
	botCfg.TargetChatID = 0
	d := c.dispatcher(console, nil, nil, memoryStores(), botCfg)

	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		return task(ctx, console, d)
	})
}
