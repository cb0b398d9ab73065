package main

import (
	"context"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/battle"
	"github.com/kbukum/quorumbot/bot"
	"github.com/kbukum/quorumbot/history"
	"github.com/kbukum/quorumbot/llm"
	_ "github.com/kbukum/quorumbot/llm/openai"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/orchestrator"
	"github.com/kbukum/quorumbot/prompt"
	"github.com/kbukum/quorumbot/provider"
	"github.com/kbukum/quorumbot/resilience"
	"github.com/kbukum/quorumbot/transcription"
	"github.com/kbukum/quorumbot/transcription/whisper"
	"github.com/kbukum/quorumbot/transport"
)

// core holds the parts shared by every command: backends, prompts and the
// orchestrator.
type core struct {
	cfg          *bot.AppConfig
	log          *logger.Logger
	metrics      *observability.Metrics
	catalog      *backend.Catalog
	prompts      *prompt.Builder
	orchestrator *orchestrator.Orchestrator
}

func newCore(cfg *bot.AppConfig, log *logger.Logger, metrics *observability.Metrics) (*core, error) {
	catalog, err := backend.NewCatalog(cfg.Backends)
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.New(cfg.Prompt)
	if err != nil {
		return nil, err
	}
	llmCfg := cfg.LLM
	if cb := llmCfg.CircuitBreaker; cb != nil {
		watched := *cb
		watched.OnStateChange = func(name string, from, to resilience.State) {
			log.Warn("model circuit changed state", logger.Fields(
				logger.FieldModel, name, "from", from.String(), "to", to.String(),
			))
		}
		llmCfg.CircuitBreaker = &watched
	}
	adapter, err := llm.New(llmCfg)
	if err != nil {
		return nil, err
	}
	client := backend.NewClient(adapter, log, metrics)
	return &core{
		cfg:          cfg,
		log:          log,
		metrics:      metrics,
		catalog:      catalog,
		prompts:      prompts,
		orchestrator: orchestrator.New(client, prompts, log, metrics),
	}, nil
}

// stores are the persistence backends of one dispatcher.
type stores struct {
	history  history.Store
	sessions provider.StateStore[battle.Session]
}

func memoryStores() stores {
	return stores{history: history.NewMemoryStore(), sessions: provider.NewMemoryState[battle.Session]()}
}

// transcriber returns the configured speech-to-text provider, or nil.
func (c *core) transcriber(ctx context.Context) (transcription.Provider, error) {
	if !c.cfg.Whisper.Enabled {
		return nil, nil
	}
	p, err := whisper.NewProvider(c.cfg.Whisper)
	if err != nil {
		return nil, err
	}
	if !p.IsAvailable(ctx) {
		c.log.Warn("transcription server not reachable, voice messages will fail until it is",
			logger.Fields("url", c.cfg.Whisper.URL))
	}
	return p, nil
}

func (c *core) dispatcher(sender transport.Sender, files transport.FileSource,
	tr transcription.Provider, st stores, botCfg bot.Config) *bot.Dispatcher {
	machine := battle.New(c.cfg.Battle, st.sessions, st.history, c.orchestrator, c.catalog.Synthesizer(), c.log)
	return bot.NewDispatcher(bot.Deps{
		Sender:       sender,
		Files:        files,
		Transcriber:  tr,
		Catalog:      c.catalog,
		Orchestrator: c.orchestrator,
		Battle:       machine,
		History:      st.history,
		Prompts:      c.prompts,
	}, botCfg, c.log, c.metrics)
}
