package daemon

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/api"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/minutes"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/workflow"
)

var allowedAudioTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
	"audio/x-wav": {},
	"audio/wave":  {},
}

var allowedAudioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
}

func (s *apiServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	maxBytes := int64(s.daemon.cfg.Upload.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d MB limit", s.daemon.cfg.Upload.MaxUploadMB), "validation")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart request", "validation")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no audio file uploaded", "validation")
		return
	}
	defer file.Close()

	if !isAllowedAudio(header) {
		s.writeError(w, http.StatusBadRequest, "only MP3 and WAV files are allowed", "validation")
		return
	}

	originalName := filepath.Base(header.Filename)
	storedName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(originalName))
	if err := os.MkdirAll(s.daemon.cfg.Paths.UploadDir, 0o755); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to prepare upload directory", "internal")
		return
	}
	storedPath := filepath.Join(s.daemon.cfg.Paths.UploadDir, storedName)

	out, err := os.Create(storedPath)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to store upload", "internal")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		_ = out.Close()
		_ = os.Remove(storedPath)
		s.writeError(w, http.StatusInternalServerError, "failed to store upload", "internal")
		return
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(storedPath)
		s.writeError(w, http.StatusInternalServerError, "failed to store upload", "internal")
		return
	}

	rec, err := s.daemon.orch.RegisterUpload(r.Context(), storedName, originalName, storedPath)
	if err != nil {
		_ = os.Remove(storedPath)
		s.writeServiceError(w, err)
		return
	}

	s.log().Info("upload stored",
		logging.String("filename", storedName),
		logging.Int64("size_bytes", header.Size))
	s.writeJSON(w, http.StatusOK, api.UploadResponse{
		Message:  "File uploaded successfully",
		ID:       rec.ID,
		Filename: rec.Filename,
		Path:     "/uploads/" + rec.Filename,
	})
}

func (s *apiServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req api.TranscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required", "validation")
		return
	}

	rec, err := s.daemon.orch.ResolveByFilename(r.Context(), req.Filename)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	updated, err := s.daemon.orch.RunTranscription(r.Context(), rec.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranscribeResponse{Transcript: updated.RawTranscript})
}

func (s *apiServer) handleEditTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req api.EditTranscriptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Filename) == "" || strings.TrimSpace(req.Transcript) == "" {
		s.writeError(w, http.StatusBadRequest, "filename and transcript are required", "validation")
		return
	}

	rec, err := s.daemon.orch.ResolveByFilename(r.Context(), req.Filename)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if _, err := s.daemon.orch.SaveEdit(r.Context(), rec.ID, req.Transcript); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Transcript saved successfully!"})
}

func (s *apiServer) handleGetEditedTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	filename := strings.TrimPrefix(r.URL.Path, "/get-edited-transcript/")
	if filename == "" || strings.Contains(filename, "/") {
		s.writeError(w, http.StatusNotFound, "no edited transcript found", "not_found")
		return
	}

	rec, err := s.daemon.orch.ResolveByFilename(r.Context(), filename)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if rec.EditedTranscript == "" {
		s.writeError(w, http.StatusNotFound, "no edited transcript found", "not_found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranscriptResponse{Transcript: rec.EditedTranscript})
}

func (s *apiServer) handleExtractActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req api.ExtractActionsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	// Supplied transcript text wins; the stored recording is only
	// consulted when the caller names it instead.
	if req.Transcript != "" {
		items := s.daemon.orch.ExtractFromText(req.Transcript)
		s.writeJSON(w, http.StatusOK, api.ExtractActionsResponse{ActionItems: items})
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, "transcript or filename is required", "validation")
		return
	}

	rec, err := s.daemon.orch.ResolveByFilename(r.Context(), req.Filename)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	updated, err := s.daemon.orch.ExtractActions(r.Context(), rec.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ExtractActionsResponse{ActionItems: updated.ActionItems})
}

func (s *apiServer) handleGenerateMinutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req api.GenerateMinutesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Filename) == "" || req.Metadata == nil {
		s.writeError(w, http.StatusBadRequest, "filename and metadata are required", "validation")
		return
	}

	rec, err := s.daemon.orch.ResolveByFilename(r.Context(), req.Filename)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	input := workflowComposeInput(req)
	updated, err := s.daemon.orch.ComposeMinutes(r.Context(), rec.ID, input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.GenerateMinutesResponse{
		Message:  "Minutes generated successfully",
		Download: "/minutes/" + filepath.Base(updated.MinutesPath),
	})
}

func workflowComposeInput(req api.GenerateMinutesRequest) workflow.ComposeInput {
	return workflow.ComposeInput{
		Metadata: minutes.Metadata{
			Title:     req.Metadata.Title,
			Date:      req.Metadata.Date,
			Organizer: req.Metadata.Organizer,
			Attendees: req.Metadata.Attendees,
		},
		Transcript:      req.Transcript,
		Actions:         req.Actions,
		ActionsProvided: req.Actions != nil,
	}
}

func isAllowedAudio(header *multipart.FileHeader) bool {
	if _, ok := allowedAudioExtensions[strings.ToLower(filepath.Ext(header.Filename))]; ok {
		return true
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	_, ok := allowedAudioTypes[contentType]
	return ok
}

// sanitizeFilename keeps stored names shell and URL friendly.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "recording"
	}
	return b.String()
}
