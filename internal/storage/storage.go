package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// IsPostgres reports whether the config value is a PostgreSQL connection URL
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// ExpandPath resolves a leading "~/" against the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// ConfigDir returns the directory holding logs, preferences and backups
// for the given config value. PostgreSQL configs fall back to the user
// config directory.
func ConfigDir(config, appName string) string {
	if !IsPostgres(config) {
		return filepath.Dir(ExpandPath(config))
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(dir, appName)
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
