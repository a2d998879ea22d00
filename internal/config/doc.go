// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, an optional config.yaml, and TASKAPI_*
// environment variables). It provides type-safe access to settings needed by
// the server while keeping configuration details out of business logic.
package config
