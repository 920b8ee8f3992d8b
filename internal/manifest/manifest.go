// Package manifest builds and installs native messaging host manifests.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// HostName is the native messaging host name the extension connects to.
const HostName = "com.danmuck.clicktrans"

type Browser string

const (
	Chrome   Browser = "chrome"
	Chromium Browser = "chromium"
	Edge     Browser = "edge"
	Firefox  Browser = "firefox"
)

var (
	ErrUnknownBrowser   = errors.New("manifest: unknown browser")
	ErrRelativePath     = errors.New("manifest: host path must be absolute")
	ErrNoExtension      = errors.New("manifest: at least one extension id is required")
	ErrInvalidExtension = errors.New("manifest: invalid extension id")
	ErrUnsupportedOS    = errors.New("manifest: no user install directory for this OS")
)

// Manifest is the JSON document browsers read to launch the host.
type Manifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedOrigins    []string `json:"allowed_origins,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

func ParseBrowser(raw string) (Browser, error) {
	switch b := Browser(strings.ToLower(strings.TrimSpace(raw))); b {
	case Chrome, Chromium, Edge, Firefox:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBrowser, raw)
	}
}

// Build returns the manifest for browser. Chromium-family browsers list
// origins; Firefox lists extension ids.
func Build(browser Browser, hostPath string, extensionIDs []string) (Manifest, error) {
	if !filepath.IsAbs(hostPath) {
		return Manifest{}, fmt.Errorf("%w: %q", ErrRelativePath, hostPath)
	}
	if len(extensionIDs) == 0 {
		return Manifest{}, ErrNoExtension
	}
	m := Manifest{
		Name:        HostName,
		Description: "Writes in-page translation edits back to JSON resource files",
		Path:        hostPath,
		Type:        "stdio",
	}
	switch browser {
	case Chrome, Chromium, Edge:
		for _, id := range extensionIDs {
			if !validChromeID(id) {
				return Manifest{}, fmt.Errorf("%w: %q", ErrInvalidExtension, id)
			}
			m.AllowedOrigins = append(m.AllowedOrigins, "chrome-extension://"+id+"/")
		}
	case Firefox:
		for _, id := range extensionIDs {
			if strings.TrimSpace(id) == "" || strings.ContainsAny(id, " \t\n") {
				return Manifest{}, fmt.Errorf("%w: %q", ErrInvalidExtension, id)
			}
			m.AllowedExtensions = append(m.AllowedExtensions, id)
		}
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownBrowser, browser)
	}
	return m, nil
}

func Marshal(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InstallDir returns the per-user manifest directory for browser.
func InstallDir(browser Browser, home string) (string, error) {
	switch runtime.GOOS {
	case "linux":
		switch browser {
		case Chrome:
			return filepath.Join(home, ".config", "google-chrome", "NativeMessagingHosts"), nil
		case Chromium:
			return filepath.Join(home, ".config", "chromium", "NativeMessagingHosts"), nil
		case Edge:
			return filepath.Join(home, ".config", "microsoft-edge", "NativeMessagingHosts"), nil
		case Firefox:
			return filepath.Join(home, ".mozilla", "native-messaging-hosts"), nil
		}
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		switch browser {
		case Chrome:
			return filepath.Join(support, "Google", "Chrome", "NativeMessagingHosts"), nil
		case Chromium:
			return filepath.Join(support, "Chromium", "NativeMessagingHosts"), nil
		case Edge:
			return filepath.Join(support, "Microsoft Edge", "NativeMessagingHosts"), nil
		case Firefox:
			return filepath.Join(support, "Mozilla", "NativeMessagingHosts"), nil
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBrowser, browser)
}

// InstallPath returns <InstallDir>/<HostName>.json.
func InstallPath(browser Browser, home string) (string, error) {
	dir, err := InstallDir(browser, home)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HostName+".json"), nil
}

// Write stores m at path, creating parent directories.
func Write(path string, m Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Chrome extension ids are 32 characters in the range a-p.
func validChromeID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 'a' || id[i] > 'p' {
			return false
		}
	}
	return true
}
