// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// The directions provider API key may be supplied via the environment
// (optionally through a .env file) and takes precedence over the YAML value.
package config
