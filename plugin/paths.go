package plugin

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/gencraft/gencraft/errors"
)

// ManifestFileName is the plugin manifest probed in developer-mode
// fallback locations and shipped inside plugin packages.
const ManifestFileName = "gencraft.plugin.toml"

// ExpandPath safely expands and validates a search path using go-getter
// detection. Handles ~, relative paths, and file:// URLs; anything else
// is rejected.
func ExpandPath(path string) (string, error) {
	// Handle tilde expansion first (go-getter doesn't do this)
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		return home, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(path, pwd, getter.Detectors)
	if err != nil {
		return "", errors.Wrap(err, "invalid path")
	}

	u, err := url.Parse(detected)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse path")
	}

	if u.Scheme == "file" {
		return u.Path, nil
	}

	if u.Scheme == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", errors.Wrap(err, "failed to make absolute path")
		}
		return abs, nil
	}

	return "", errors.Newf("unsupported path scheme: %s (expected file:// or local path)", u.Scheme)
}
