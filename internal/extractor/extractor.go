// Package extractor pulls action-item sentences out of transcripts
// using case-insensitive keyword matching.
package extractor

import (
	"strings"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
)

// Extractor matches transcript sentences against a fixed keyword set.
// Extraction is deterministic: the same transcript and keywords always
// produce the same list.
type Extractor struct {
	keywords []string
}

// New builds an extractor for the given keywords. Keywords are matched
// lowercase; an empty set falls back to the configuration defaults.
func New(keywords []string) *Extractor {
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		trimmed := strings.ToLower(strings.TrimSpace(keyword))
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	if len(normalized) == 0 {
		normalized = append(normalized, config.DefaultKeywords...)
	}
	return &Extractor{keywords: normalized}
}

// Keywords returns the active keyword set.
func (e *Extractor) Keywords() []string {
	return append([]string(nil), e.keywords...)
}

// Extract returns the transcript sentences containing at least one
// keyword, in transcript order. Matching is substring based, so
// "review" also matches "reviewed". Duplicate sentences stay
// duplicated. The result is never nil.
func (e *Extractor) Extract(transcript string) []string {
	sentences := SplitSentences(transcript)
	items := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		if e.matches(sentence) {
			items = append(items, sentence)
		}
	}
	return items
}

func (e *Extractor) matches(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, keyword := range e.keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// SplitSentences breaks a transcript on '.', '!' and '?' boundaries,
// trims whitespace, and drops empty fragments. Text without terminal
// punctuation comes back as a single sentence.
func SplitSentences(transcript string) []string {
	fragments := strings.FieldsFunc(transcript, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
