// Package api defines the JSON request and response types exchanged
// with the daemon's HTTP interface, plus the error-kind to HTTP status
// mapping shared by server and CLI.
package api

import (
	"net/http"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

// ErrorResponse is the uniform error body. Kind carries the stable
// taxonomy name so clients can branch without parsing messages.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// UploadResponse acknowledges a stored recording.
type UploadResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// TranscribeRequest names the stored recording to transcribe.
type TranscribeRequest struct {
	Filename string `json:"filename"`
}

// TranscribeResponse returns the raw transcript text.
type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// EditTranscriptRequest stores a reviewed transcript for a recording.
type EditTranscriptRequest struct {
	Filename   string `json:"filename"`
	Transcript string `json:"transcript"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// TranscriptResponse returns a stored transcript.
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// ExtractActionsRequest extracts action items either from the supplied
// transcript text or, when Filename is set instead, from the stored
// recording's current transcript.
type ExtractActionsRequest struct {
	Filename   string `json:"filename,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// ExtractActionsResponse lists matched action-item sentences in
// transcript order.
type ExtractActionsResponse struct {
	ActionItems []string `json:"actionItems"`
}

// MetadataPayload carries the meeting details for a minutes document.
type MetadataPayload struct {
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Organizer string   `json:"organizer"`
	Attendees []string `json:"attendees"`
}

// GenerateMinutesRequest asks the daemon to render a minutes document
// for a stored recording.
type GenerateMinutesRequest struct {
	Filename   string           `json:"filename"`
	Transcript string           `json:"transcript"`
	Actions    []string         `json:"actions"`
	Metadata   *MetadataPayload `json:"metadata"`
}

// GenerateMinutesResponse points at the rendered document.
type GenerateMinutesResponse struct {
	Message  string `json:"message"`
	Download string `json:"download"`
}

// RecordView summarizes one recording for listings.
type RecordView struct {
	ID                  string    `json:"id"`
	Filename            string    `json:"filename"`
	OriginalName        string    `json:"originalName,omitempty"`
	Title               string    `json:"title"`
	Stage               string    `json:"stage"`
	HasRawTranscript    bool      `json:"hasRawTranscript"`
	HasEditedTranscript bool      `json:"hasEditedTranscript"`
	ActionItemCount     int       `json:"actionItemCount"`
	MinutesPath         string    `json:"minutesPath,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// RecordDetail is the full record body returned for a single lookup.
type RecordDetail struct {
	RecordView
	RawTranscript    string   `json:"rawTranscript,omitempty"`
	EditedTranscript string   `json:"editedTranscript,omitempty"`
	ActionItems      []string `json:"actionItems,omitempty"`
}

// RecordListResponse wraps a record listing.
type RecordListResponse struct {
	Records []RecordView `json:"records"`
}

// StatusResponse describes the running daemon.
type StatusResponse struct {
	Running      bool           `json:"running"`
	StoreBackend string         `json:"storeBackend"`
	UploadDir    string         `json:"uploadDir"`
	MinutesDir   string         `json:"minutesDir"`
	Stages       map[string]int `json:"stages"`
}

// ViewFromRecord projects a record into its listing shape.
func ViewFromRecord(rec *pipeline.Record) RecordView {
	return RecordView{
		ID:                  rec.ID,
		Filename:            rec.Filename,
		OriginalName:        rec.OriginalName,
		Title:               rec.DisplayTitle,
		Stage:               rec.Stage.String(),
		HasRawTranscript:    rec.RawTranscript != "",
		HasEditedTranscript: rec.EditedTranscript != "",
		ActionItemCount:     len(rec.ActionItems),
		MinutesPath:         rec.MinutesPath,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}
}

// DetailFromRecord projects a record with its transcripts and actions.
func DetailFromRecord(rec *pipeline.Record) RecordDetail {
	return RecordDetail{
		RecordView:       ViewFromRecord(rec),
		RawTranscript:    rec.RawTranscript,
		EditedTranscript: rec.EditedTranscript,
		ActionItems:      rec.ActionItems,
	}
}

// HTTPStatus maps a pipeline error to the response status code.
func HTTPStatus(err error) int {
	switch services.Kind(err) {
	case "validation", "empty_transcript", "incomplete_metadata":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "no_transcript", "duplicate_recording":
		return http.StatusConflict
	case "transcription_failed":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
