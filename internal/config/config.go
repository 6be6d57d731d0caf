package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const AppName = "planboard"

// Environment overrides.
const (
	EnvConfig   = "PLANBOARD_CONFIG"
	EnvDB       = "PLANBOARD_DB"
	EnvLogLevel = "PLANBOARD_LOG_LEVEL"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Board    BoardConfig    `toml:"board"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	// File, when set, receives logfmt output in addition to the console.
	File string `toml:"file"`
	// UseCases logs every service use case at info level.
	UseCases bool `toml:"use_cases"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the use-case metrics in Prometheus text
	// format after every command.
	Textfile string `toml:"textfile"`
}

type BoardConfig struct {
	Weeks              int     `toml:"weeks"`
	DailyCapacityHours float64 `toml:"daily_capacity_hours"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Logging:  LoggingConfig{Level: "warn"},
		Board: BoardConfig{
			Weeks:              4,
			DailyCapacityHours: 8,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays PLANBOARD_DB and PLANBOARD_LOG_LEVEL.
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	if v := strings.TrimSpace(getenv(EnvDB)); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if _, err := charmLog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Board.Weeks <= 0 {
		return fmt.Errorf("board.weeks must be > 0, got %d", c.Board.Weeks)
	}
	if c.Board.DailyCapacityHours <= 0 || c.Board.DailyCapacityHours > 24 {
		return fmt.Errorf("board.daily_capacity_hours must be in (0, 24], got %v", c.Board.DailyCapacityHours)
	}
	return nil
}

// Encode renders the config as TOML.
func (c Config) Encode() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return out, nil
}

// Write stores the config at path, creating parent directories.
func Write(path string, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	out, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Paths are the default locations of the config file and database.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// DefaultPaths resolves Paths for the current platform, honoring
// PLANBOARD_CONFIG for the config file.
func DefaultPaths(getenv func(string) string) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir := configDir
	if runtime.GOOS == "linux" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", homeErr)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	env := map[string]string{
		"XDG_CONFIG_HOME": getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   getenv("XDG_DATA_HOME"),
		"APPDATA":         getenv("APPDATA"),
		"LOCALAPPDATA":    getenv("LOCALAPPDATA"),
	}
	p, err := PathsFor(runtime.GOOS, env, configDir, dataDir)
	if err != nil {
		return Paths{}, err
	}
	if v := strings.TrimSpace(getenv(EnvConfig)); v != "" {
		p.ConfigPath = v
	}
	return p, nil
}

// PathsFor computes Paths from explicit inputs.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}

	configBase := userConfigDir
	dataBase := userDataDir

	switch goos {
	case "linux":
		if v := env["XDG_CONFIG_HOME"]; v != "" {
			configBase = v
		}
		if v := env["XDG_DATA_HOME"]; v != "" {
			dataBase = v
		}
	case "windows":
		if v := env["APPDATA"]; v != "" {
			configBase = v
		}
		if v := env["LOCALAPPDATA"]; v != "" {
			dataBase = v
		}
	}

	appDataDir := filepath.Join(dataBase, AppName)
	return Paths{
		ConfigPath: filepath.Join(configBase, AppName, "config.toml"),
		DataDir:    appDataDir,
		DBPath:     filepath.Join(appDataDir, AppName+".db"),
	}, nil
}
