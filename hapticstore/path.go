package hapticstore

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "myPyHaptics"

// DefaultPath returns the OS-appropriate default location for the config
// database: %APPDATA%/myPyHaptics/config.db on Windows, otherwise a
// project-relative data/config.db.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName, "config.db")
		}
	}

	return filepath.Join("data", "config.db")
}
