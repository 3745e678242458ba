package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// configNames lists the file names probed in the maak config dir, in order.
var configNames = []string{"config.jsonc", "config.yaml", "config.yml"}

// ResolvePath picks the config file: an explicit path wins, then the first
// existing file under $XDG_CONFIG_HOME/maak (or ~/.config/maak). When none
// exists the JSONC name is returned so Load can report it.
func ResolvePath(explicit string) (string, error) {
	if path := strings.TrimSpace(explicit); path != "" {
		return path, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}
	return filepath.Join(dir, configNames[0]), nil
}

func configDir() (string, error) {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "", errors.New("cannot locate config dir: neither XDG_CONFIG_HOME nor HOME is set")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "maak"), nil
}
