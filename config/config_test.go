package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db-type", "", "")
	fs.String("db-host", "", "")
	fs.Int("db-port", 0, "")
	fs.String("table", "", "")
	fs.Int("port", DefaultPort, "")
	fs.String("verbose", "", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.DBType)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, DefaultTable, cfg.Dashboard.Table)
	assert.Equal(t, DefaultTitle, cfg.Dashboard.Title)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Layers(t *testing.T) {
	path := writeConfig(t, `
database:
  type: postgres
  host: db.internal
  port: 5433
  user: reader
  name: store
dashboard:
  table: books
log_level: debug
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Database.DBType)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "books", cfg.Dashboard.Table)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("BOOKDASH_DATABASE__HOST", "replica.internal")
		t.Setenv("BOOKDASH_DASHBOARD__TABLE", "books_v2")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "replica.internal", cfg.Database.Host)
		assert.Equal(t, "books_v2", cfg.Dashboard.Table)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("BOOKDASH_DATABASE__HOST", "replica.internal")

		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--db-host", "primary.internal", "--port", "9000", "--verbose", "yes"}))

		cfg, err := LoadConfig(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "primary.internal", cfg.Database.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "books", cfg.Dashboard.Table, "unchanged flags must not override")
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database:  DatabaseConfig{DBType: "mysql", Host: "localhost", Name: "test"},
			Dashboard: DashboardConfig{Table: "life_new1"},
			Server:    ServerConfig{Port: DefaultPort},
			LogLevel:  "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "schema qualified table", mutate: func(c *Config) { c.Dashboard.Table = "shop.life_new1" }},
		{name: "empty table", mutate: func(c *Config) { c.Dashboard.Table = "" }, wantErr: "table is required"},
		{name: "table with statement", mutate: func(c *Config) { c.Dashboard.Table = "t; DROP TABLE t" }, wantErr: "invalid dashboard table name"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
		{name: "unsupported driver", mutate: func(c *Config) { c.Database.DBType = "oracle" }, wantErr: "unsupported database type"},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "host and database name are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	level, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestGetConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "mysql default port",
			cfg:  DatabaseConfig{DBType: "mysql", Host: "localhost", User: "root", Password: "secret", Name: "test"},
			want: "root:secret@tcp(localhost:3306)/test",
		},
		{
			name: "mysql explicit dsn",
			cfg:  DatabaseConfig{DBType: "mysql", ConnectionString: "u:p@tcp(db:3307)/shop", Host: "ignored"},
			want: "u:p@tcp(db:3307)/shop",
		},
		{
			name: "postgres",
			cfg:  DatabaseConfig{DBType: "postgres", Host: "db", Port: 5433, User: "reader", Password: "pw", Name: "store"},
			want: "postgres://reader:pw@db:5433/store",
		},
		{
			name: "sqlite default file",
			cfg:  DatabaseConfig{DBType: "sqlite"},
			want: "database.db",
		},
		{
			name: "sqlite file",
			cfg:  DatabaseConfig{DBType: "sqlite", File: "books.db"},
			want: "books.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.GetConnectionString()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
