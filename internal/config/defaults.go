package config

const (
	defaultBaseURL        = "http://localhost:8000"
	defaultStreamPath     = "/ws/alerts"
	defaultUploadPath     = "/api/upload-video"
	defaultProcessPath    = "/api/process-video"
	defaultComparePath    = "/api/compare-ward-images"
	defaultHealthPath     = "/api/health"
	defaultRequestTimeout = 300
	defaultReconnectDelay = 3
	defaultLogDir         = "~/.local/share/wardwatch/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNtfyTimeout    = 10
)

// Default returns a Config populated with repository defaults, including the
// reference four-room ward layout.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:        defaultBaseURL,
			StreamPath:     defaultStreamPath,
			UploadPath:     defaultUploadPath,
			ProcessPath:    defaultProcessPath,
			ComparePath:    defaultComparePath,
			HealthPath:     defaultHealthPath,
			RequestTimeout: defaultRequestTimeout,
		},
		Stream: Stream{
			ReconnectDelay: defaultReconnectDelay,
		},
		Rooms: []RoomConfig{
			{ID: 1, Name: "Room 101", Patient: "Patient A", Monitoring: true},
			{ID: 2, Name: "Room 102", Patient: "Patient B"},
			{ID: 3, Name: "Room 103", Patient: "Patient C"},
			{ID: 4, Name: "Room 104", Patient: "Patient D"},
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
