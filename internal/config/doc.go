// Package config defines the application configuration structure and loads it
// from environment variables and an optional config file, with environment
// variables taking precedence. Loaded configuration is validated before use.
package config
