// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env
// struct tags. Validates tracked symbol, polling knobs, and the stakeholder
// list before the server starts.
package config
