// Package config provides 12-factor configuration for nacre.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Shell: wrapped shell command and chat trigger key
//   - Agent: agent service gRPC connection and retry settings
//   - History: SQLite command history location
//   - Logging: log level, format, and file sink
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("agent at %s\n", cfg.Agent.Address)
//
// Environment Variables:
//   - NACRE_SHELL, NACRE_TRIGGER_KEY
//   - NACRE_AGENT_ADDR, NACRE_AGENT_RETRIES
//   - NACRE_HISTORY_ENABLED, NACRE_HISTORY_PATH
//   - NACRE_LOG_LEVEL, NACRE_LOG_DEV, NACRE_LOG_FILE
package config
