package telegram

import (
	"context"
	"time"

	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/transport"
)

const pollBackoff = 3 * time.Second

// GetUpdates long-polls for updates after the last one handed out.
func (c *Client) GetUpdates(ctx context.Context) ([]Update, error) {
	return call[[]Update](ctx, c, c.poll, "getUpdates", map[string]any{
		"offset":          c.offset,
		"timeout":         int(c.cfg.PollTimeout / time.Second),
		"allowed_updates": []string{"message"},
	})
}

// Receive polls until ctx is done and hands each text or voice message to
// h in update order. Poll failures are logged and polling resumes after a
// pause. Receive is not safe for concurrent use.
func (c *Client) Receive(ctx context.Context, h transport.Handler) error {
	log := c.log.WithContext(ctx)
	if err := c.DeleteWebhook(ctx); err != nil {
		log.Warn("deleteWebhook failed", logger.Fields(logger.FieldError, err.Error()))
	}
	log.Info("polling started", logger.Fields("timeout", c.cfg.PollTimeout.String()))

	for ctx.Err() == nil {
		updates, err := c.GetUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn("getUpdates failed", logger.Fields(logger.FieldError, err.Error()))
			select {
			case <-ctx.Done():
			case <-time.After(pollBackoff):
			}
			continue
		}
		for _, u := range updates {
			c.offset = u.UpdateID + 1
			if ev, ok := u.Event(); ok {
				h.HandleEvent(ctx, ev)
			}
		}
	}
	log.Info("polling stopped")
	return nil
}
