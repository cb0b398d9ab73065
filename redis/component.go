package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/quorumbot/component"
	"github.com/kbukum/quorumbot/logger"
)

// Component owns the Client for the application's lifetime. Start fails
// unless Redis answers PING.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
}

var _ interface {
	component.Component
	component.Describable
} = (*Component)(nil)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	return nil
}

func (c *Component) Stop(context.Context) error {
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Unhealthy(c.Name(), "not connected")
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Unhealthy(c.Name(), err.Error())
	}
	return component.Healthy(c.Name())
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db %d, keys %s:*", c.cfg.Addr, c.cfg.DB, c.cfg.KeyPrefix),
	}
}
