package config

const (
	defaultDataDir             = "~/.local/share/pastforward"
	defaultLogDir              = "~/.local/share/pastforward/logs"
	defaultMediaDir            = "~/.local/share/pastforward/media"
	defaultGeminiBaseURL       = "https://generativelanguage.googleapis.com/v1beta"
	defaultImageModel          = "gemini-2.5-flash-image"
	defaultVideoModel          = "veo-3.1-generate-preview"
	defaultNarrationModel      = "gemini-2.5-flash-preview-tts"
	defaultTimeoutSeconds      = 120
	defaultVideoTimeoutSeconds = 600
	defaultPollIntervalSeconds = 5
	defaultConcurrency         = 2
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			MediaDir: defaultMediaDir,
		},
		Gemini: Gemini{
			BaseURL:             defaultGeminiBaseURL,
			ImageModel:          defaultImageModel,
			VideoModel:          defaultVideoModel,
			NarrationModel:      defaultNarrationModel,
			TimeoutSeconds:      defaultTimeoutSeconds,
			VideoTimeoutSeconds: defaultVideoTimeoutSeconds,
			PollIntervalSeconds: defaultPollIntervalSeconds,
		},
		Generation: Generation{
			Concurrency: defaultConcurrency,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
