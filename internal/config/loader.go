package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads the Snake configuration.
// Search order: customPath -> ~/.snake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys it
// changes. The result is validated before it is returned.
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg, _, err := loadSnake(customPath)
	return cfg, err
}

// loadSnake also reports which file was used, for the watcher.
func loadSnake(customPath string) (SnakeConfig, string, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := ReadSnakeFile(customPath)
		return cfg, customPath, err
	}

	// Try user config directory
	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if _, err := os.Stat(userCfgPath); err == nil {
			cfg, err := ReadSnakeFile(userCfgPath)
			return cfg, userCfgPath, err
		}
	}

	// Try local configs directory
	if _, err := os.Stat("configs/snake.yaml"); err == nil {
		cfg, err := ReadSnakeFile("configs/snake.yaml")
		return cfg, "configs/snake.yaml", err
	}

	// Use embedded default YAML
	cfg, err := ParseSnake(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), "", nil // Fallback to hardcoded if embed fails
	}
	return cfg, "", nil
}

// ReadSnakeFile reads and validates a single YAML file.
func ReadSnakeFile(path string) (SnakeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseSnake(data)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSnake decodes YAML over the defaults and validates the result.
func ParseSnake(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SnakeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return SnakeConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "configs", filename)
}
