// Package logging wires log/slog with the daemon's console and JSON
// handlers and the standardized field names shared across components.
package logging
