package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the betting service.
type Config struct {
	Server  ServerConfig
	MySQL   MySQLConfig
	JWT     JWTConfig
	Redis   RedisConfig
	OCR     OCRConfig
	Scraper ScraperConfig
	Inbox   InboxConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration. Multi-word fields need
// explicit mapstructure tags; viper matches names case-insensitively but not
// across underscores.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MySQLConfig holds database connection settings.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the gorm/mysql connection string.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	ExpiryDays int `mapstructure:"expiry_days"`
}

// RedisConfig holds the plays-cache settings. An empty Addr disables the
// cache entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// OCRConfig holds recognition settings.
type OCRConfig struct {
	Languages []string
}

// ScraperConfig holds the sporttery feed settings.
type ScraperConfig struct {
	URL       string
	Interval  time.Duration
	Timeout   time.Duration
	UserAgent string `mapstructure:"user_agent"`
}

// InboxConfig holds the slip-watcher settings.
type InboxConfig struct {
	Dir     string
	Workers int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Load reads configuration from an optional file plus FOOTBALL_* environment
// variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "football")
	v.SetDefault("mysql.password", "football")
	v.SetDefault("mysql.database", "football_betting")

	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.expiry_days", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("ocr.languages", []string{"chi_sim", "eng"})

	v.SetDefault("scraper.url", "https://webapi.sporttery.cn/gateway/uniform/football/getMatchCalculatorV1.qry")
	v.SetDefault("scraper.interval", 600*time.Second)
	v.SetDefault("scraper.timeout", 20*time.Second)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	v.SetDefault("inbox.dir", "./inbox")
	v.SetDefault("inbox.workers", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("FOOTBALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
