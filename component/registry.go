package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/quorumbot/logger"
)

const (
	stopTimeout = 10 * time.Second
	// A health probe slower than this reports the component unhealthy.
	healthTimeout = 3 * time.Second
)

type slot struct {
	c       Component
	running bool
}

// Registry starts components in registration order and stops them in
// reverse, so a component may rely on anything registered before it.
type Registry struct {
	mu    sync.Mutex
	slots []*slot
	names map[string]struct{}
	log   *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{names: map[string]struct{}{}, log: log.WithComponent("registry")}
}

// Register fails when the name is taken.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.names[c.Name()]; taken {
		return fmt.Errorf("component %q is already registered", c.Name())
	}
	r.names[c.Name()] = struct{}{}
	r.slots = append(r.slots, &slot{c: c})
	r.log.Debug("component registered", logger.Fields("component", c.Name()))
	return nil
}

// StartAll starts whatever is not running yet. On failure it returns
// immediately; the components already running are left for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.running {
			continue
		}
		if err := s.c.Start(ctx); err != nil {
			r.log.Error("component failed to start", logger.Fields("component", s.c.Name(), logger.FieldError, err.Error()))
			return fmt.Errorf("start %s: %w", s.c.Name(), err)
		}
		s.running = true
		r.log.Info("component started", describe(s.c))
	}
	return nil
}

func describe(c Component) map[string]any {
	d, ok := c.(Describable)
	if !ok {
		return logger.Fields("component", c.Name())
	}
	desc := d.Describe()
	if desc.Name == "" {
		desc.Name = c.Name()
	}
	return logger.Fields("component", desc.Name, "type", desc.Type, "details", desc.Details)
}

// StopAll stops every running component, newest first, and keeps going
// past failures. Each Stop gets at most stopTimeout of ctx.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for i := len(r.slots) - 1; i >= 0; i-- {
		s := r.slots[i]
		if !s.running {
			continue
		}
		s.running = false
		if err := stopOne(ctx, s.c); err != nil {
			r.log.Error("component failed to stop", logger.Fields("component", s.c.Name(), logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("stop %s: %w", s.c.Name(), err))
			continue
		}
		r.log.Info("component stopped", logger.Fields("component", s.c.Name()))
	}
	return errors.Join(errs...)
}

func stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll probes every component concurrently and reports in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.Lock()
	comps := make([]Component, len(r.slots))
	for i, s := range r.slots {
		comps[i] = s.c
	}
	r.mu.Unlock()

	out := make([]Health, len(comps))
	var g errgroup.Group
	for i, c := range comps {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, healthTimeout)
			defer cancel()
			out[i] = c.Health(probeCtx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
