package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/danmuck/clicktrans/internal/manifest"
)

func runManifest(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := pflag.NewFlagSet("manifest", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	browserName := fs.String("browser", "chrome", "target browser: chrome|chromium|edge|firefox")
	ids := fs.StringSlice("extension-id", nil, "allowed extension id (repeatable)")
	binPath := fs.String("path", "", "absolute host binary path (defaults to this executable)")
	output := fs.String("output", "", "manifest file, '-' for stdout (defaults to the browser's user directory)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	browser, err := manifest.ParseBrowser(*browserName)
	if err != nil {
		fmt.Fprintf(stderr, "manifest: %v\n", err)
		return 2
	}
	hostPath := *binPath
	if hostPath == "" {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(stderr, "manifest: %v\n", err)
			return 1
		}
		hostPath = exe
	}
	if abs, err := filepath.Abs(hostPath); err == nil {
		hostPath = abs
	}

	m, err := manifest.Build(browser, hostPath, *ids)
	if err != nil {
		fmt.Fprintf(stderr, "manifest: %v\n", err)
		return 2
	}

	switch *output {
	case "-":
		data, err := manifest.Marshal(m)
		if err != nil {
			fmt.Fprintf(stderr, "manifest: %v\n", err)
			return 1
		}
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "manifest: %v\n", err)
			return 1
		}
		return 0
	case "":
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(stderr, "manifest: %v\n", err)
			return 1
		}
		path, err := manifest.InstallPath(browser, home)
		if err != nil {
			fmt.Fprintf(stderr, "manifest: %v\n", err)
			return 1
		}
		return writeManifest(path, m, stdout, stderr)
	default:
		return writeManifest(*output, m, stdout, stderr)
	}
}

func writeManifest(path string, m manifest.Manifest, stdout io.Writer, stderr io.Writer) int {
	if err := manifest.Write(path, m); err != nil {
		fmt.Fprintf(stderr, "manifest: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s manifest to %s\n", m.Name, path)
	return 0
}
