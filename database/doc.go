// Package database opens the SQLite file behind the chat history through
// GORM, routes GORM's logging into the application logger and maps
// storage errors onto AppError.
//
//	comp := database.NewComponent(cfg, log).WithAutoMigrate(&history.ChatRecord{})
//	registry.Register(comp)
package database
