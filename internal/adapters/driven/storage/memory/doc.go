// Package memory provides in-memory implementations of the persistence
// ports. It backs the service tests; nothing survives process exit.
package memory
