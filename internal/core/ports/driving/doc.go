// Package driving defines the interfaces through which the CLI, TUI
// and MCP surfaces drive the core: the "driving" ports in hexagonal
// architecture terminology.
//
// The services package provides the implementation.
package driving
