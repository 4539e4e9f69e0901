package config

const (
	defaultBind               = "127.0.0.1:8475"
	defaultLockPath           = "~/.local/share/reelchat/reelchat.lock"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/reelchat/reelchat"
	defaultLLMTitle           = "Reelchat"
	defaultLLMTimeoutSeconds  = 30
	defaultGenresRefreshHours = 24
	defaultGenresStatePath    = "~/.local/share/reelchat/genres.json"
	defaultNameCachePath      = "~/.local/share/reelchat/namecache.json"
	defaultTurnLogPath        = "~/.local/share/reelchat/turns.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultCORSAllowedOrigin  = "*"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:               defaultBind,
			CORSAllowedOrigins: []string{defaultCORSAllowedOrigin},
			LockPath:           defaultLockPath,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Genres: Genres{
			RefreshIntervalHours: defaultGenresRefreshHours,
			StatePath:            defaultGenresStatePath,
		},
		NameCache: NameCache{
			Enabled: true,
			Path:    defaultNameCachePath,
		},
		TurnLog: TurnLog{
			Enabled: true,
			Path:    defaultTurnLogPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
