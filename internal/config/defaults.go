package config

const (
	defaultUploadDir              = "~/.local/share/minutes/uploads"
	defaultMinutesDir             = "~/.local/share/minutes/minutes"
	defaultLogDir                 = "~/.local/share/minutes/logs"
	defaultAPIBind                = "127.0.0.1:7841"
	defaultStoreBackend           = "memory"
	defaultTranscriberCommand     = "python3"
	defaultTranscriberTimeoutSecs = 300
	defaultMaxUploadMB            = 200
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// DefaultKeywords is the keyword set used to classify action-item sentences
// when the configuration does not override it.
var DefaultKeywords = []string{
	"action", "todo", "task", "follow-up", "deadline",
	"assign", "complete", "review", "finish",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir:  defaultUploadDir,
			MinutesDir: defaultMinutesDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Transcriber: Transcriber{
			Command:        defaultTranscriberCommand,
			Args:           []string{"transcribe.py"},
			TimeoutSeconds: defaultTranscriberTimeoutSecs,
		},
		Extractor: Extractor{
			Keywords: append([]string(nil), DefaultKeywords...),
		},
		Upload: Upload{
			MaxUploadMB: defaultMaxUploadMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
