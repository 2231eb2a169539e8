package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultConfigFile = "bookdash.yaml"
	DefaultTable      = "life_new1"
	DefaultTitle      = "Allwyn Book Store Analysis"
	DefaultPort       = 8501
	envPrefix         = "BOOKDASH_"
)

type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Server    ServerConfig    `koanf:"server"`
	LogLevel  string          `koanf:"log_level"`
}

// DatabaseConfig is the connection 4-tuple plus the driver selection.
// It is loaded once at start and never derived from user input.
type DatabaseConfig struct {
	DBType           string `koanf:"type"`
	Host             string `koanf:"host"`
	Port             int    `koanf:"port"`
	User             string `koanf:"user"`
	Password         string `koanf:"password"`
	Name             string `koanf:"name"`
	ConnectionString string `koanf:"connection_string"`
	File             string `koanf:"file"`
}

type DashboardConfig struct {
	Table string `koanf:"table"`
	Title string `koanf:"title"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

func defaults() map[string]any {
	return map[string]any{
		"database.type":     "mysql",
		"database.host":     "localhost",
		"database.user":     "root",
		"database.password": "",
		"database.name":     "test",
		"dashboard.table":   DefaultTable,
		"dashboard.title":   DefaultTitle,
		"server.port":       DefaultPort,
		"log_level":         "info",
	}
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"db-type":     "database.type",
	"db-host":     "database.host",
	"db-port":     "database.port",
	"db-user":     "database.user",
	"db-password": "database.password",
	"db-name":     "database.name",
	"db-dsn":      "database.connection_string",
	"db-file":     "database.file",
	"table":       "dashboard.table",
	"title":       "dashboard.title",
	"port":        "server.port",
	"log-level":   "log_level",
}

// LoadConfig layers defaults, the YAML file, BOOKDASH_ environment variables
// and explicitly set flags, in that order of increasing precedence.
// A missing file is only an error when configPath was given explicitly.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// BOOKDASH_DATABASE__HOST -> database.host
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Dashboard.Table == "" {
		return fmt.Errorf("dashboard table is required")
	}
	if !tableName.MatchString(c.Dashboard.Table) {
		return fmt.Errorf("invalid dashboard table name: %q", c.Dashboard.Table)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	_, err := c.Database.GetConnectionString()
	return err
}

// ParseLevel maps a config log level onto slog.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// GetConnectionString returns the driver DSN. An explicit connection string
// wins over the discrete host/user/password/name fields.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	switch d.DBType {
	case "mysql":
		if d.ConnectionString != "" {
			return d.ConnectionString, nil
		}
		if d.Host == "" || d.Name == "" {
			return "", fmt.Errorf("host and database name are required for %s connection", d.DBType)
		}

		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = d.address(3306)
		mc.DBName = d.Name
		return mc.FormatDSN(), nil

	case "postgres":
		if d.ConnectionString != "" {
			return d.ConnectionString, nil
		}
		if d.Host == "" || d.Name == "" {
			return "", fmt.Errorf("host and database name are required for %s connection", d.DBType)
		}

		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   d.address(5432),
			Path:   "/" + d.Name,
		}
		return u.String(), nil

	case "sqlite":
		if d.File == "" {
			d.File = "database.db"
		}
		return d.File, nil

	default:
		return "", fmt.Errorf("unsupported database type: %s", d.DBType)
	}
}

func (d *DatabaseConfig) address(defaultPort int) string {
	port := d.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(port))
}
