package config

const (
	defaultConfigPath    = "~/.config/subtitler/config.toml"
	projectConfigName    = "subtitler.toml"
	defaultWorkDir       = "~/.local/share/subtitler/work"
	defaultDownloadDir   = "~/.local/share/subtitler/downloads"
	defaultCacheDir      = "~/.cache/subtitler"
	defaultStateDir      = "~/.local/state/subtitler"
	defaultLogDir        = "~/.local/share/subtitler/logs"
	defaultModel         = "small"
	defaultVADMethod     = "silero"
	defaultWorkers       = 1
	maxWorkers           = 8
	defaultFormat        = "srt"
	defaultCharThreshold = 160
	defaultYtDlpBinary   = "yt-dlp"
	defaultAudioFormat   = "m4a"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	cacheFileName        = "transcripts.db"
	lockFileName         = "subtitler.lock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			DownloadDir: defaultDownloadDir,
			CacheDir:    defaultCacheDir,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Transcription: Transcription{
			Model:                defaultModel,
			VADMethod:            defaultVADMethod,
			CacheEnabled:         true,
			FilterHallucinations: true,
			Workers:              defaultWorkers,
		},
		Subtitles: Subtitles{
			Format:        defaultFormat,
			CharThreshold: defaultCharThreshold,
		},
		Download: Download{
			YtDlpBinary: defaultYtDlpBinary,
			AudioFormat: defaultAudioFormat,
			Playlist:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
