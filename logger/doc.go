// Package logger provides structured logging for quorumbot using zerolog.
//
// Loggers are created once from configuration and handed to components,
// which scope them with WithComponent:
//
//	log := logger.New(&cfg.Logging, "quorumbot").WithComponent("orchestrator")
//	log.Info("dispatch finished", logger.Fields(logger.FieldChatID, chatID))
package logger
