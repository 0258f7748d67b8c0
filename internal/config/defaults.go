package config

const (
	defaultLockDir            = "~/.cache/ytmp3/locks"
	defaultFallbackDir        = "~/Downloads/YT_Downloads"
	defaultJobTimeoutSeconds  = 0
	defaultHTTPTimeoutSeconds = 0
	defaultPlaylistFallback   = true
	defaultAutoReveal         = false
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultListen             = "127.0.0.1:8080"
)

// Environment overrides
const (
	EnvDownloadDir = "YTMP3_DOWNLOAD_DIR"
	EnvLogLevel    = "LOG_LEVEL"
	EnvListen      = "YTMP3_LISTEN"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir(),
			LockDir:     defaultLockDir,
		},
		Download: Download{
			JobTimeoutSeconds:  defaultJobTimeoutSeconds,
			HTTPTimeoutSeconds: defaultHTTPTimeoutSeconds,
			PlaylistFallback:   defaultPlaylistFallback,
			AutoReveal:         defaultAutoReveal,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Server: Server{
			Listen: defaultListen,
		},
	}
}
