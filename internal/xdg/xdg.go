// Package xdg resolves the XDG Base Directory locations this module
// needs (trash, thumbnails, config), falling back to the documented
// defaults when the environment variables are unset. Grounded on the
// teacher's use of github.com/mitchellh/go-homedir for a portable home
// directory lookup (rclone's config path resolution uses the same
// library to find a user's home across platforms).
package xdg

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

func homeOrEmpty() string {
	h, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return h
}

func fromEnvOrDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" && filepath.IsAbs(v) {
		return v
	}
	home := homeOrEmpty()
	if home == "" {
		return fallback
	}
	return filepath.Join(home, fallback)
}

// DataHome returns $XDG_DATA_HOME, defaulting to ~/.local/share.
func DataHome() string {
	return fromEnvOrDefault("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// CacheHome returns $XDG_CACHE_HOME, defaulting to ~/.cache.
func CacheHome() string {
	return fromEnvOrDefault("XDG_CACHE_HOME", ".cache")
}

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() string {
	return fromEnvOrDefault("XDG_CONFIG_HOME", ".config")
}

// TrashHome returns the home-trash directory for the current user,
// $XDG_DATA_HOME/Trash, per the freedesktop.org Trash specification
// §2's "$topdir is $XDG_DATA_HOME" case.
func TrashHome() string {
	return filepath.Join(DataHome(), "Trash")
}

// ThumbnailRoot returns $XDG_CACHE_HOME/thumbnails, per the
// freedesktop.org Thumbnail Managing Standard.
func ThumbnailRoot() string {
	return filepath.Join(CacheHome(), "thumbnails")
}
