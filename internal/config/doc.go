// Package config loads service configuration from the environment with
// an optional TOML or YAML file overlay.
package config
