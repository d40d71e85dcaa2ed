package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/api"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address must be set")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/upload", srv.handleUpload)
	mux.HandleFunc("/transcribe", srv.handleTranscribe)
	mux.HandleFunc("/edit-transcript", srv.handleEditTranscript)
	mux.HandleFunc("/get-edited-transcript/", srv.handleGetEditedTranscript)
	mux.HandleFunc("/extract-actions", srv.handleExtractActions)
	mux.HandleFunc("/generate-minutes", srv.handleGenerateMinutes)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/records", srv.handleRecords)
	mux.HandleFunc("/api/records/", srv.handleRecord)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Paths.UploadDir))))
	mux.Handle("/minutes/", http.StripPrefix("/minutes/", http.FileServer(http.Dir(cfg.Paths.MinutesDir))))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Automated Meeting Minutes Generator API running")
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	status := s.daemon.Status(r.Context())
	stages := make(map[string]int, len(status.Stages))
	for stage, count := range status.Stages {
		stages[stage.String()] = count
	}
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:      status.Running,
		StoreBackend: status.StoreBackend,
		UploadDir:    status.UploadDir,
		MinutesDir:   status.MinutesDir,
		Stages:       stages,
	})
}

func (s *apiServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	records, err := s.daemon.store.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	views := make([]api.RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, api.ViewFromRecord(rec))
	}
	s.writeJSON(w, http.StatusOK, api.RecordListResponse{Records: views})
}

func (s *apiServer) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "record not found", "not_found")
		return
	}
	rec, err := s.daemon.orch.Resolve(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DetailFromRecord(rec))
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "api", "decode", "invalid JSON request body", err)
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message, kind string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message, Kind: kind})
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, api.HTTPStatus(err), err.Error(), services.Kind(err))
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
