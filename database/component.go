package database

import (
	"context"
	"fmt"

	"github.com/kbukum/quorumbot/component"
	"github.com/kbukum/quorumbot/logger"
)

// Component opens the database on Start and closes it on Stop.
type Component struct {
	cfg    Config
	log    *logger.Logger
	models []any
	db     *DB
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
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

// WithAutoMigrate adds models to migrate on Start when auto_migrate is set.
func (c *Component) WithAutoMigrate(models ...any) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := db.AutoMigrate(c.models...); err != nil {
			_ = db.Close()
			return err
		}
	}
	c.db = db
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Unhealthy(c.Name(), "not open")
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Unhealthy(c.Name(), err.Error())
	}
	return component.Healthy(c.Name())
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s, pool %d/%d", c.cfg.DSN, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += ", auto-migrate"
	}
	return component.Description{Name: "SQLite", Type: "database", Details: details}
}
