// Package config loads and validates service configuration.
//
// Configuration is read from an optional YAML file with environment
// variable overrides, constructed once at process start and passed
// explicitly into the components that need it. A filesystem watcher
// supports hot-reloading the rate-limit settings.
package config
