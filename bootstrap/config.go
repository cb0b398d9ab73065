package bootstrap

import "github.com/kbukum/quorumbot/config"

// Config is what NewApp needs from a command's configuration. Embedding
// config.ServiceConfig supplies GetServiceConfig; the embedding type
// defaults and validates its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
