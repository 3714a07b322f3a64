// Package component defines the lifecycle contract for long-running parts
// of the service and a registry that starts and stops them in order.
//
// # Interfaces
//
//   - Component: Name/Start/Stop/Health lifecycle
//   - Describable: startup summary descriptions
package component
