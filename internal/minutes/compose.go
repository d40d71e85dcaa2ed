package minutes

import (
	"path/filepath"
	"strings"
)

// NoActionItemsMarker is rendered in place of the action-item list
// when extraction found nothing.
const NoActionItemsMarker = "No action items identified."

// Compose renders the minutes document. The layout is fixed: a
// metadata header, the transcript, then the action items as a dashed
// list (or the no-items marker).
func Compose(transcript string, actions []string, meta Metadata) string {
	var b strings.Builder
	b.WriteString("Meeting Title: ")
	b.WriteString(meta.Title)
	b.WriteString("\nDate: ")
	b.WriteString(meta.Date)
	b.WriteString("\nOrganizer: ")
	b.WriteString(meta.Organizer)
	b.WriteString("\nAttendees: ")
	b.WriteString(strings.Join(meta.presentAttendees(), ", "))
	b.WriteString("\n\n--- Transcript ---\n")
	b.WriteString(transcript)
	b.WriteString("\n\n--- Action Items ---\n")
	if len(actions) == 0 {
		b.WriteString(NoActionItemsMarker)
	} else {
		for i, action := range actions {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(action)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// DocumentName maps a stored recording filename to its minutes
// document name by swapping the audio extension for .txt.
func DocumentName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "minutes"
	}
	return base + ".txt"
}
