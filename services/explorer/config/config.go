package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LayoutConfig defines the metrics grid geometry
type LayoutConfig struct {
	Columns       int `toml:"Columns"`
	DefaultWidth  int `toml:"DefaultWidth"`
	DefaultHeight int `toml:"DefaultHeight"`
}

// Config maps to the config.toml file for the metrics explorer service
type Config struct {
	ListenAddress            string       `toml:"ListenAddress"`
	SavedObjectsPath         string       `toml:"SavedObjectsPath"`
	QueryEndpoint            string       `toml:"QueryEndpoint"`
	QueryTimeoutInSeconds    uint32       `toml:"QueryTimeoutInSeconds"`
	MaxQueryResponseSize     int64        `toml:"MaxQueryResponseSize"`
	ReloadIntervalInSeconds  uint32       `toml:"ReloadIntervalInSeconds"`
	MaxConcurrentDiscoveries int          `toml:"MaxConcurrentDiscoveries"`
	NotificationsCapacity    int          `toml:"NotificationsCapacity"`
	Layout                   LayoutConfig `toml:"Layout"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
