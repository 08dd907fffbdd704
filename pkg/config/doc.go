// Package config provides configuration management for Certify.
//
// This package handles loading and validating server configuration from
// a YAML file and environment variables. Environment variables take
// precedence over file values, which take precedence over defaults, and
// the source of every setting is tracked for display.
//
// # Configuration Sources
//
//   - Environment variables (primary)
//   - certify.yml under CERTIFY_CONFIG_PATH (optional)
//   - Built-in defaults
//
// # Key Configuration Options
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CERTIFY_SESSION_SECRET: Session token signing secret
//   - CERTIFY_LOG_LEVEL: Logging verbosity
//   - PORT: Server listen port
package config
