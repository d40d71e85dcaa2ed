// Package pipeline defines the recording record model, its processing
// stages, and the stores that persist records between operations.
package pipeline
