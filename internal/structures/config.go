package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// TflConfig controls the upstream status feed: where to fetch it, how often
// the sampler runs, and how the resolver decides between the live status and
// a logged snapshot.
type TflConfig struct {
	ApiUrl         string        `yaml:"apiUrl" validate:"required|fullUrl"`
	Line           string        `yaml:"line" validate:"required"`
	PollInterval   time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"required|min:1"`
	LiveMaxAge     time.Duration `yaml:"liveMaxAge" validate:"required|min:1"`
	LiveWindow     time.Duration `yaml:"liveWindow" validate:"required|min:1"`
}

type RateLimitConfig struct {
	Cooldown        time.Duration `yaml:"cooldown" validate:"required|min:1"`
	CleanupInterval time.Duration `yaml:"cleanupInterval" validate:"required|min:1"`
}

// ReportsConfig holds the submission validation rules. The closure window is
// the overnight period when the line does not run; incident times inside
// closureStart..closureEnd (inclusive, "HH:MM") are rejected.
type ReportsConfig struct {
	CollectionStartDate string `yaml:"collectionStartDate" validate:"required"`
	ClosureStart        string `yaml:"closureStart" validate:"required"`
	ClosureEnd          string `yaml:"closureEnd" validate:"required"`
	MaxDelayMinutes     int    `yaml:"maxDelayMinutes" validate:"required|min:1"`
	ConfirmThreshold    int    `yaml:"confirmThreshold" validate:"required|min:1"`
	PageSize            int    `yaml:"pageSize" validate:"required|min:1"`
	MaxPageSize         int    `yaml:"maxPageSize" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Tfl         TflConfig       `yaml:"tfl"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
	Reports     ReportsConfig   `yaml:"reports"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
