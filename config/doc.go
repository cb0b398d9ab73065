// Package config loads service configuration with viper.
//
// A config.yml found next to the binary's cmd directory provides the base
// values, a .env file is loaded into the environment, and every environment
// variable is bound under its nested key variants so that TELEGRAM_TOKEN
// fills telegram.token:
//
//	var cfg bot.AppConfig
//	if err := config.LoadConfig("quorumbot", &cfg); err != nil { ... }
package config
