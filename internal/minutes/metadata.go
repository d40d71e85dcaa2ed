package minutes

import (
	"strings"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

// Metadata carries the meeting details that head a minutes document.
// All fields are required; Validate enforces that before composition.
type Metadata struct {
	Title     string
	Date      string
	Organizer string
	Attendees []string
}

// Validate reports every missing metadata field in one error so the
// caller does not fix fields one at a time.
func (m Metadata) Validate() error {
	var missing []string
	if strings.TrimSpace(m.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(m.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(m.Organizer) == "" {
		missing = append(missing, "organizer")
	}
	if len(m.presentAttendees()) == 0 {
		missing = append(missing, "attendees")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrIncompleteMetadata, "minutes", "validate-metadata",
			"missing fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func (m Metadata) presentAttendees() []string {
	attendees := make([]string, 0, len(m.Attendees))
	for _, attendee := range m.Attendees {
		if trimmed := strings.TrimSpace(attendee); trimmed != "" {
			attendees = append(attendees, trimmed)
		}
	}
	return attendees
}
