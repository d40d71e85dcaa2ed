package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeTranscriber()
	c.normalizeExtractor()
	c.normalizeUpload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.Paths.MinutesDir, err = expandPath(c.Paths.MinutesDir); err != nil {
		return fmt.Errorf("paths.minutes_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Command = strings.TrimSpace(c.Transcriber.Command)
	if c.Transcriber.Command == "" {
		c.Transcriber.Command = defaultTranscriberCommand
	}
	args := make([]string, 0, len(c.Transcriber.Args))
	for _, arg := range c.Transcriber.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Transcriber.Args = args
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = defaultTranscriberTimeoutSecs
	}
}

func (c *Config) normalizeExtractor() {
	keywords := make([]string, 0, len(c.Extractor.Keywords))
	seen := make(map[string]struct{}, len(c.Extractor.Keywords))
	for _, keyword := range c.Extractor.Keywords {
		normalized := strings.ToLower(strings.TrimSpace(keyword))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keywords = append(keywords, normalized)
	}
	if len(keywords) == 0 {
		keywords = append(keywords, DefaultKeywords...)
	}
	c.Extractor.Keywords = keywords
}

func (c *Config) normalizeUpload() {
	if c.Upload.MaxUploadMB <= 0 {
		c.Upload.MaxUploadMB = defaultMaxUploadMB
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
