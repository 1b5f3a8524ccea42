// Package config handles configuration management for clio.
// It defines the output configuration (which destination each message intent
// goes to, per interactivity mode) and loads settings from embedded defaults,
// TOML or YAML files and environment variables.
package config
