package bot

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/quorumbot/component"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/transport"
)

var (
	_ component.Component   = (*Runner)(nil)
	_ component.Describable = (*Runner)(nil)
	_ transport.Handler     = (*Runner)(nil)
)

// Runner feeds events to a handler. Events of one chat are handled one
// at a time in arrival order; different chats run concurrently, bounded by
// a limit. With a Receiver it also owns the receive loop; without one
// (webhook mode) events arrive through HandleEvent only. Stop waits for
// every queued event.
type Runner struct {
	handler  transport.Handler
	receiver transport.Receiver
	limit    int
	log      *logger.Logger

	mu      sync.RWMutex
	group   *errgroup.Group
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	recvErr error

	qmu sync.Mutex
	// pending events per chat; a chat has an entry while its worker runs
	queues map[int64][]queued
}

type queued struct {
	ctx context.Context
	ev  transport.Event
}

// NewRunner creates a runner. receiver may be nil.
func NewRunner(h transport.Handler, receiver transport.Receiver, limit int, log *logger.Logger) *Runner {
	if limit <= 0 {
		limit = defaultMaxConcurrentEvents
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		handler:  h,
		receiver: receiver,
		limit:    limit,
		log:      log.WithComponent("runner"),
		queues:   make(map[int64][]queued),
	}
}

// Name returns the component name.
func (r *Runner) Name() string { return "bot" }

// Start begins accepting events and, with a receiver, starts receiving.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("bot: runner already started")
	}
	r.group = &errgroup.Group{}
	r.group.SetLimit(r.limit)
	r.running = true

	if r.receiver == nil {
		return nil
	}
	recvCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	r.done = make(chan struct{})
	r.recvErr = nil
	go func() {
		defer close(r.done)
		if err := r.receiver.Receive(recvCtx, r); err != nil && recvCtx.Err() == nil {
			r.log.Error("receive loop stopped", logger.Fields(logger.FieldError, err.Error()))
			r.mu.Lock()
			r.recvErr = err
			r.mu.Unlock()
		}
	}()
	return nil
}

// HandleEvent queues ev behind the chat's earlier events. Starting a new
// chat blocks while the concurrency limit is reached. The handler context
// is detached from ctx's cancellation so a shutdown lets in-flight answers
// finish.
func (r *Runner) HandleEvent(ctx context.Context, ev transport.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.running {
		r.log.Warn("event dropped, runner stopped", logger.Fields(logger.FieldChatID, ev.ChatID))
		return
	}

	r.qmu.Lock()
	q, busy := r.queues[ev.ChatID]
	r.queues[ev.ChatID] = append(q, queued{ctx: context.WithoutCancel(ctx), ev: ev})
	r.qmu.Unlock()
	if busy {
		return
	}
	r.group.Go(func() error {
		r.drain(ev.ChatID)
		return nil
	})
}

// drain handles the chat's queue until it is empty, then retires it.
func (r *Runner) drain(chatID int64) {
	for {
		r.qmu.Lock()
		q := r.queues[chatID]
		if len(q) == 0 {
			delete(r.queues, chatID)
			r.qmu.Unlock()
			return
		}
		next := q[0]
		r.queues[chatID] = q[1:]
		r.qmu.Unlock()

		r.handler.HandleEvent(next.ctx, next.ev)
	}
}

// Stop ends the receive loop, refuses new events and waits for in-flight
// ones until ctx is done.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.cancel, r.done = nil, nil
	group := r.group
	r.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bot: events still in flight: %w", ctx.Err())
	}
}

// Health reports whether events are accepted and the receive loop is alive.
func (r *Runner) Health(context.Context) component.Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch {
	case !r.running:
		return component.Unhealthy(r.Name(), "not running")
	case r.recvErr != nil:
		return component.Unhealthy(r.Name(), r.recvErr.Error())
	default:
		return component.Healthy(r.Name())
	}
}

// Describe returns the summary shown at startup.
func (r *Runner) Describe() component.Description {
	mode := "webhook"
	if r.receiver != nil {
		mode = "polling"
	}
	return component.Description{Name: "Bot", Type: "dispatcher", Details: fmt.Sprintf("%s, %d concurrent events", mode, r.limit)}
}
