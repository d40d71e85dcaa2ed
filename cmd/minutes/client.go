package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/api"
)

// apiClient talks to the daemon's HTTP interface.
type apiClient struct {
	baseURL string
	httpc   *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *apiClient) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.getJSON(ctx, "/api/status", &out)
	return out, err
}

func (c *apiClient) Records(ctx context.Context) ([]api.RecordView, error) {
	var out api.RecordListResponse
	if err := c.getJSON(ctx, "/api/records", &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (c *apiClient) Record(ctx context.Context, id string) (api.RecordDetail, error) {
	var out api.RecordDetail
	err := c.getJSON(ctx, "/api/records/"+id, &out)
	return out, err
}

// Upload posts an audio file to the daemon as a multipart form.
func (c *apiClient) Upload(ctx context.Context, filePath string) (api.UploadResponse, error) {
	var out api.UploadResponse

	file, err := os.Open(filePath)
	if err != nil {
		return out, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filepath.Base(filePath))
	if err != nil {
		return out, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return out, fmt.Errorf("read audio file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return out, fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	err = c.do(req, &out)
	return out, err
}

func (c *apiClient) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

func (c *apiClient) do(req *http.Request, dst any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("contact daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon error: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode daemon response: %w", err)
	}
	return nil
}
