// Package minutes renders meeting-minutes documents from transcripts,
// action items, and meeting metadata.
package minutes
