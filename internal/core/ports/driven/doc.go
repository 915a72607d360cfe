// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): persistence and the external embedding
// and completion providers.
package driven
