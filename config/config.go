package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration. The gateway and the
// kiosk agent read the same file and each uses the sections it needs.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Room       RoomConfig       `yaml:"room"`
	Media      MediaConfig      `yaml:"media"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Kiosk      KioskConfig      `yaml:"kiosk"`
}

// WorkerPoolConfig holds the configuration for the sponsor notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications. Push is disabled
// when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the gateway HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	UploadsDir      string  `yaml:"uploads_dir"`
	StaticDir       string  `yaml:"static_dir"`

	CacheTTL time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `yaml:"auto_migrate"`
}

// RoomConfig points at the JSON file naming the meeting room shown in the footer.
type RoomConfig struct {
	ConfigPath  string `yaml:"config_path"`
	DefaultName string `yaml:"default_name"`
}

// MediaConfig holds the fallback slideshow directory.
type MediaConfig struct {
	Dir string `yaml:"dir"`
}

// KioskConfig holds the kiosk agent configuration.
type KioskConfig struct {
	Port                  int           `yaml:"port"`
	GatewayURL            string        `yaml:"gateway_url"`
	HTTPProxy             string        `yaml:"http_proxy"`
	RequestTimeoutSeconds int           `yaml:"request_timeout_seconds"`
	PollIntervalSeconds   int           `yaml:"poll_interval_seconds"`
	MediaRefreshSeconds   int           `yaml:"media_refresh_seconds"`
	GateSeconds           int           `yaml:"gate_seconds"`
	PrintDelayMillis      int           `yaml:"print_delay_ms"`
	Rotation              RotationTimes `yaml:"rotation"`
	Printer               PrinterConfig `yaml:"printer"`
	StaticDir             string        `yaml:"static_dir"`

	RequestTimeout time.Duration `yaml:"-"`
	PollInterval   time.Duration `yaml:"-"`
	MediaRefresh   time.Duration `yaml:"-"`
	Gate           time.Duration `yaml:"-"`
	PrintDelay     time.Duration `yaml:"-"`
}

// RotationTimes holds the periods, in milliseconds, of the display rotations.
type RotationTimes struct {
	WelcomeMillis int `yaml:"welcome_ms"`
	RoomMillis    int `yaml:"room_ms"`
	VisitorMillis int `yaml:"visitor_ms"`
	MediaMillis   int `yaml:"media_ms"`
}

// PrinterConfig selects how rendered badges reach paper.
type PrinterConfig struct {
	Mode     string   `yaml:"mode"` // command or spool
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	SpoolDir string   `yaml:"spool_dir"`
	DPI      int      `yaml:"dpi"`
	LogoPath string   `yaml:"logo_path"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 20
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Room.ConfigPath == "" {
		cfg.Room.ConfigPath = "./roomConfig.json"
	}
	if cfg.Room.DefaultName == "" {
		cfg.Room.DefaultName = DefaultRoomName
	}

	if cfg.Media.Dir == "" {
		cfg.Media.Dir = "./client/public/media"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	k := &cfg.Kiosk
	if k.Port <= 0 {
		k.Port = 8080
	}
	if k.GatewayURL == "" {
		k.GatewayURL = "http://localhost:3000"
	}
	if k.RequestTimeoutSeconds <= 0 {
		k.RequestTimeoutSeconds = 15
	}
	if k.PollIntervalSeconds <= 0 {
		k.PollIntervalSeconds = 10
	}
	if k.MediaRefreshSeconds <= 0 {
		k.MediaRefreshSeconds = 300
	}
	if k.GateSeconds <= 0 {
		k.GateSeconds = 5
	}
	if k.PrintDelayMillis <= 0 {
		k.PrintDelayMillis = 500
	}
	if k.Rotation.WelcomeMillis <= 0 {
		k.Rotation.WelcomeMillis = 1000
	}
	if k.Rotation.RoomMillis <= 0 {
		k.Rotation.RoomMillis = 4000
	}
	if k.Rotation.VisitorMillis <= 0 {
		k.Rotation.VisitorMillis = 13000
	}
	if k.Rotation.MediaMillis <= 0 {
		k.Rotation.MediaMillis = 15000
	}
	if k.Printer.Mode == "" {
		k.Printer.Mode = "spool"
	}
	if k.Printer.SpoolDir == "" {
		k.Printer.SpoolDir = "./badges"
	}
	if k.Printer.DPI <= 0 {
		k.Printer.DPI = 300
	}

	k.RequestTimeout = time.Duration(k.RequestTimeoutSeconds) * time.Second
	k.PollInterval = time.Duration(k.PollIntervalSeconds) * time.Second
	k.MediaRefresh = time.Duration(k.MediaRefreshSeconds) * time.Second
	k.Gate = time.Duration(k.GateSeconds) * time.Second
	k.PrintDelay = time.Duration(k.PrintDelayMillis) * time.Millisecond
}

// Millis converts a millisecond count to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
