package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/quorumbot/battle"
	"github.com/kbukum/quorumbot/bootstrap"
	"github.com/kbukum/quorumbot/bot"
	"github.com/kbukum/quorumbot/database"
	"github.com/kbukum/quorumbot/history"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/redis"
	"github.com/kbukum/quorumbot/server"
	"github.com/kbukum/quorumbot/server/endpoint"
	"github.com/kbukum/quorumbot/transport"
	"github.com/kbukum/quorumbot/transport/telegram"
)

const webhookPath = "/telegram/webhook"

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			app, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			if err := setupRun(cmd.Context(), app); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

// setupRun registers infrastructure components and defers the dispatcher
// wiring to the configure phase, once the stores are connected.
func setupRun(ctx context.Context, app *bootstrap.App[*bot.AppConfig]) error {
	cfg, log := app.Cfg, app.Logger

	metrics, shutdown, err := observability.Init(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	}, log)
	if err != nil {
		return err
	}
	app.OnStop(bootstrap.Hook(shutdown))

	c, err := newCore(cfg, log, metrics)
	if err != nil {
		return err
	}
	tg, err := telegram.New(cfg.Telegram, log)
	if err != nil {
		return err
	}

	var db *database.Component
	if cfg.Database.Enabled {
		db = database.NewComponent(cfg.Database, log).WithAutoMigrate(&history.ChatRecord{})
		if err := app.RegisterComponent(db); err != nil {
			return err
		}
	}
	var rdb *redis.Component
	if cfg.Redis.Enabled {
		rdb = redis.NewComponent(cfg.Redis, log)
		if err := app.RegisterComponent(rdb); err != nil {
			return err
		}
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(endpoint.Info{Service: cfg.Name, Version: cfg.Version, Started: time.Now()}, app.Components.HealthAll)
	webhook := cfg.Telegram.Mode == telegram.ModeWebhook

	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*bot.AppConfig]) error {
		st := memoryStores()
		if db != nil {
			st.history = history.NewGormStore(db.DB())
		}
		if rdb != nil {
			st.sessions = redis.NewTypedStore[battle.Session](rdb.Client(), cfg.Redis.KeyPrefix+":battle")
		}
		tr, err := c.transcriber(ctx)
		if err != nil {
			return err
		}

		d := c.dispatcher(tg, tg, tr, st, cfg.Bot)
		var recv transport.Receiver
		if !webhook {
			recv = tg
		}
		runner := bot.NewRunner(d, recv, cfg.Bot.MaxConcurrentEvents, log)
		if err := a.RegisterComponent(runner); err != nil {
			return err
		}

		if webhook {
			srv.HandleWebhook(webhookPath, tg.WebhookHandler(runner))
			a.OnReady(tg.SetWebhook)
		}
		if cfg.Server.Enabled || webhook {
			return a.RegisterComponent(server.NewComponent(srv))
		}
		return nil
	})
	return nil
}
