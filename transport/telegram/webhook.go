package telegram

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/quorumbot/errors"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/server"
	"github.com/kbukum/quorumbot/transport"
)

// SecretHeader carries the webhook secret on every Telegram delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler accepts Telegram webhook deliveries and hands messages to
// h. Requests without the configured secret are rejected. The handler
// context outlives the HTTP request.
func (c *Client) WebhookHandler(h transport.Handler) gin.HandlerFunc {
	return func(gc *gin.Context) {
		if c.cfg.WebhookSecret != "" {
			got := gc.GetHeader(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(c.cfg.WebhookSecret)) != 1 {
				server.RespondWithError(gc, errors.Unauthorized("Webhook secret does not match."))
				return
			}
		}

		var u Update
		if err := gc.ShouldBindJSON(&u); err != nil {
			c.log.Warn("invalid webhook payload", logger.Fields(logger.FieldError, err.Error()))
			server.RespondWithError(gc, errors.InvalidInput("body", "not a Telegram update"))
			return
		}
		if ev, ok := u.Event(); ok {
			h.HandleEvent(context.WithoutCancel(gc.Request.Context()), ev)
		}
		gc.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
