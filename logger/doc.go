// Package logger provides structured logging on top of zerolog.
//
// It supports console and JSON output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("catalog")
//	log.Info("fetched catalog", logger.Fields("count", 12))
package logger
