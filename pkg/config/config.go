package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// DefaultServerAddr is where `serve` listens when nothing is configured.
	DefaultServerAddr = ":8080"
	configDirName     = ".qualitrack"
	// placeholderAPIKey is written by InitConfig and never accepted as a key.
	placeholderAPIKey = "sk-ant-api03-..."
)

// Config represents the application configuration.
type Config struct {
	RubricPath      string        `json:"rubric_path,omitempty"`
	HeaderTablePath string        `json:"header_table_path,omitempty"`
	HistoryPath     string        `json:"history_path" validate:"required"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Server          ServerConfig  `json:"server"`
	Defaults        DefaultConfig `json:"defaults"`
}

// ModelsConfig holds model selection for feedback generation.
type ModelsConfig struct {
	Feedback string `json:"feedback,omitempty"`
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// GetFeedbackModel returns the feedback model or default if not specified.
func (c *Config) GetFeedbackModel() (model string) {
	if c.Models.Feedback != "" {
		model = c.Models.Feedback
		return model
	}
	model = "claude-sonnet-4-5"
	return model
}

// DefaultPath returns $HOME/.qualitrack/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, configDirName, "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
// Variables from a .env file in the working directory are loaded first; an
// explicit configPath must exist, while a missing default file yields defaults.
func Load(configPath string) (cfg Config, err error) {
	// Missing .env is fine
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'qualitrack init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	if cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join(filepath.Dir(path), "history.json")
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}
	if historyPath := os.Getenv("QUALITRACK_HISTORY_PATH"); historyPath != "" {
		c.HistoryPath = historyPath
	}
	if rubricPath := os.Getenv("QUALITRACK_RUBRIC_PATH"); rubricPath != "" {
		c.RubricPath = rubricPath
	}
	if addr := os.Getenv("QUALITRACK_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate checks that all required configuration is present and fills defaults.
func (c *Config) Validate() (err error) {
	err = validator.New().Struct(c)
	if err != nil {
		return err
	}

	for _, p := range []string{c.RubricPath, c.HeaderTablePath} {
		if p == "" {
			continue
		}
		_, err = os.Stat(p)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", p)
			return err
		}
		err = nil
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "."
	}

	return err
}

// RequireAPIKey reports a helpful error when feedback generation has no key.
func (c *Config) RequireAPIKey() (err error) {
	if c.AnthropicAPIKey == "" || c.AnthropicAPIKey == placeholderAPIKey {
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}
	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		HistoryPath:     filepath.Join(dir, "history.json"),
		AnthropicAPIKey: placeholderAPIKey,
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Defaults: DefaultConfig{
			OutputDir: ".",
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
