package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server/engine configuration loaded from config.yaml.
// Secrets never live here; see ResolveSecret.
type Config struct {
	Version int `yaml:"version"`
	Server  struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Chat struct {
		Endpoint  string `yaml:"endpoint"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"chat"`
	Image struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"image"`
	TTS struct {
		// Endpoint is the proxy URL the text2speech bot calls.
		Endpoint string `yaml:"endpoint"`
		// Upstream is where the proxy forwards, with secrets attached.
		Upstream     string  `yaml:"upstream"`
		Model        string  `yaml:"model"`
		Voice        string  `yaml:"voice"`
		OutputFormat string  `yaml:"output_format"`
		Speed        float64 `yaml:"speed"`
		SampleRate   int     `yaml:"sample_rate"`
		Language     string  `yaml:"language"`
	} `yaml:"tts"`
	Engine struct {
		CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	} `yaml:"engine"`
}

// Load reads a yaml config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if cfg.Version != 0 && cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	return &cfg, nil
}

// Port returns the configured server port, defaulting to 3000 if not set.
func (c *Config) Port() int {
	if c.Server.Port == 0 {
		return 3000
	}
	return c.Server.Port
}

// TTSUpstream returns the upstream synthesis API the proxy forwards to.
func (c *Config) TTSUpstream() string {
	if c.TTS.Upstream == "" {
		return "https://api.play.ht/api/v2/tts"
	}
	return c.TTS.Upstream
}

// CallTimeout bounds each external call made by a processor.
func (c *Config) CallTimeout() time.Duration {
	if c.Engine.CallTimeoutSeconds == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Engine.CallTimeoutSeconds) * time.Second
}
