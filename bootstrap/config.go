package bootstrap

import "github.com/kbukum/beer-inventory/config"

// Config is what App needs from a service configuration. Embedding
// config.ServiceConfig by value provides all three methods; a service
// overrides ApplyDefaults and Validate to cover its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
