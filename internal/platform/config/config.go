package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	APIKey   APIKeyConfig   `mapstructure:"api_key"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
	MigrationsDir  string `mapstructure:"migrations_dir"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// String keeps the signing secret out of logs and panics.
func (c JWTConfig) String() string {
	return fmt.Sprintf("{Secret:*** TokenTTL:%s}", c.TokenTTL)
}

type APIKeyConfig struct {
	Prefix          string `mapstructure:"prefix"`
	ShortTokenBytes int    `mapstructure:"short_token_bytes"`
	LongTokenBytes  int    `mapstructure:"long_token_bytes"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.path", "data/linkshelf.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.migrations_dir", "migrations")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_ttl", 24*time.Hour)

	v.SetDefault("api_key.prefix", "lshelf")
	v.SetDefault("api_key.short_token_bytes", 8)
	v.SetDefault("api_key.long_token_bytes", 24)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Api-Token", "X-Request-ID"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Load reads the configuration and validates it for serving.
func Load(path string) (*Config, error) {
	config, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Read reads the YAML file at path (a missing file is not an error) and
// overlays environment variables, e.g. SERVER_PORT or JWT_SECRET.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("jwt.secret", "JWT_SECRET", "JWT_ENCODING_SECRET"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (set JWT_SECRET or JWT_ENCODING_SECRET)")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("jwt.token_ttl must be positive")
	}
	if c.APIKey.Prefix == "" || strings.Contains(c.APIKey.Prefix, "_") {
		return fmt.Errorf("api_key.prefix %q must be non-empty and must not contain '_'", c.APIKey.Prefix)
	}
	if c.APIKey.ShortTokenBytes <= 0 || c.APIKey.LongTokenBytes <= 0 {
		return errors.New("api_key token byte lengths must be positive")
	}
	return nil
}
