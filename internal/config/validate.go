package config

import (
	"errors"
	"fmt"
)

var knownStoreBackends = map[string]struct{}{
	"memory": {},
	"sqlite": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.UploadDir == "" {
		return errors.New("paths.upload_dir must be set")
	}
	if c.Paths.MinutesDir == "" {
		return errors.New("paths.minutes_dir must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	if _, ok := knownStoreBackends[c.Store.Backend]; !ok {
		return fmt.Errorf("store.backend: unknown backend %q (expected memory or sqlite)", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	if c.Transcriber.Command == "" {
		return errors.New("transcriber.command must be set")
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		return errors.New("transcriber.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.MaxUploadMB <= 0 {
		return errors.New("upload.max_upload_mb must be positive")
	}
	return nil
}
