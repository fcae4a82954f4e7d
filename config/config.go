package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

type Config struct {
	config *viper.Viper
	path   string
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	cfg := &Config{
		config: viper.New(),
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		slog.Warn("no config file found, will use environment variables instead", "env", env, "err", err.Error())
	} else {
		cfg.config.SetConfigFile(configPath)
		if err := cfg.config.ReadInConfig(); err != nil {
			slog.Warn("error reading config file, will use environment variables instead", "path", configPath, "err", err.Error())
		} else {
			cfg.path = configPath
		}
	}
	cfg.config.AutomaticEnv()

	return cfg, nil
}

// GetConfigPath returns the file the config was read from, or "" when only
// the environment is used.
func (c *Config) GetConfigPath() string {
	return c.path
}

// SetPort overrides the configured port, e.g. from a command line flag.
func (c *Config) SetPort(port string) {
	c.config.Set("PORT", port)
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}
	if len(port) == 0 {
		port = defaultPort
	}

	return port
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}
	if len(level) == 0 {
		level = defaultLogLevel
	}

	return level
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return filepath.Join(c.GetStoragePath(), kvdbPath)
}

func (c *Config) GetIndexPath() string {
	indexPath := c.config.GetString("INDEX_PATH")
	if len(indexPath) == 0 {
		indexPath = c.config.GetString("database.index_path")
	}

	return filepath.Join(c.GetStoragePath(), indexPath)
}

func (c *Config) GetStoragePath() string {
	storagePath := c.config.GetString("STORAGE_PATH")
	if len(storagePath) == 0 {
		storagePath = c.config.GetString("database.storage_path")
	}

	return storagePath
}

// findConfigFile looks for config/config.<env>.yaml in the working directory
// and then in each of its parents.
func findConfigFile(env string) (string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	configFile := filepath.Join("config", fmt.Sprintf("config.%s.yaml", env))
	for currentDir := workingDir; ; {
		candidate := filepath.Join(currentDir, configFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", fmt.Errorf("%s not found in %s or any parent directory", configFile, workingDir)
		}
		currentDir = parent
	}
}
