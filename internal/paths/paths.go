package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.mvx.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mvx")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the viewer log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "mvx.log")
}

// EnsureDirs creates the directory tree with proper permissions.
func EnsureDirs() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
