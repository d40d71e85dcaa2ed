// Package services holds cross-cutting helpers shared by pipeline
// components: the error taxonomy with its classification markers and
// context annotations used for structured logging.
package services
