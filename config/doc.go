// Package config loads service configuration from YAML files, .env files
// and environment variables using Viper.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("beer-inventory", &cfg, config.WithConfigFile("config.yml"))
//
// Environment variables override file values. Underscores map onto nested
// keys, so CATALOG_URL sets catalog.url.
package config
