package bootstrap

import (
	"context"
	"fmt"
)

// Hook runs at one point of the application lifecycle.
type Hook func(ctx context.Context) error

type phase string

const (
	// after configure callbacks and the ready check
	phaseReady phase = "ready"
	// before components stop
	phaseStop phase = "stop"
)

// OnReady hooks run when the application is about to serve, e.g. to
// register a Telegram webhook.
func (a *App[C]) OnReady(hooks ...Hook) { a.addHooks(phaseReady, hooks) }

// OnStop hooks run at shutdown while components are still up.
func (a *App[C]) OnStop(hooks ...Hook) { a.addHooks(phaseStop, hooks) }

func (a *App[C]) addHooks(p phase, hooks []Hook) {
	if a.hooks == nil {
		a.hooks = map[phase][]Hook{}
	}
	a.hooks[p] = append(a.hooks[p], hooks...)
}

// runHooks stops at the first failing hook.
func (a *App[C]) runHooks(ctx context.Context, p phase) error {
	for i, h := range a.hooks[p] {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook #%d: %w", p, i+1, err)
		}
	}
	return nil
}
