package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server ServerConfig `yaml:"server"`
	CORS   CORSConfig   `yaml:"cors"`
	Data   DataConfig   `yaml:"data"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DataConfig struct {
	// SKUFile is the CSV dataset the loader reads on every request.
	SKUFile string `yaml:"sku_file"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		CORS:   CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Data:   DataConfig{SKUFile: "data/SKU.csv"},
	}
}

// Load reads the YAML config at path, applies defaults and environment
// overrides, and validates the result. An empty path yields defaults plus
// overrides.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Environment variables win over the file so deployments can override
// settings without editing it.
func (c *Config) applyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("SKU_DATA_FILE"); v != "" {
		c.Data.SKUFile = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Data.SKUFile == "" {
		return errors.New("data.sku_file is required")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return errors.New("cors.allowed_origins must not be empty")
	}
	return nil
}
