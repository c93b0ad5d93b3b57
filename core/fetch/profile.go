package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gaurav-prasanna/bookbind/core"
)

// ProfileLocator knows where a platform family keeps Chrome user-data
// directories. One implementation exists per family; the right one is
// selected at startup from runtime.GOOS.
type ProfileLocator interface {
	// UserDataDirs returns candidate user-data directories in search order.
	UserDataDirs() []string
}

type darwinLocator struct{ home string }

func (l darwinLocator) UserDataDirs() []string {
	return []string{
		filepath.Join(l.home, "Library", "Application Support", "Google", "Chrome"),
		filepath.Join(l.home, "Library", "Application Support", "Chromium"),
	}
}

type windowsLocator struct{ localAppData string }

func (l windowsLocator) UserDataDirs() []string {
	return []string{
		filepath.Join(l.localAppData, "Google", "Chrome", "User Data"),
		filepath.Join(l.localAppData, "Chromium", "User Data"),
	}
}

type unixLocator struct{ home string }

func (l unixLocator) UserDataDirs() []string {
	return []string{
		filepath.Join(l.home, ".config", "google-chrome"),
		filepath.Join(l.home, ".config", "chromium"),
	}
}

// DefaultLocator returns the ProfileLocator for the current platform.
func DefaultLocator() ProfileLocator {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return darwinLocator{home: home}
	case "windows":
		return windowsLocator{localAppData: os.Getenv("LOCALAPPDATA")}
	default:
		return unixLocator{home: home}
	}
}

// ResolveProfile searches the locator's user-data directories for a
// profile directory whose name matches name (case-insensitive). It
// returns the containing user-data directory and the profile directory
// name. No match is an error: the caller must not silently fall back to
// a direct fetch.
func ResolveProfile(locator ProfileLocator, name string) (userDataDir, profileDir string, err error) {
	for _, base := range locator.UserDataDirs() {
		entries, readErr := os.ReadDir(base)
		if readErr != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.EqualFold(entry.Name(), name) {
				return base, entry.Name(), nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: no browser profile named %q found", core.ErrFetch, name)
}
