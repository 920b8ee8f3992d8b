package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/danmuck/clicktrans/internal/config"
	"github.com/danmuck/clicktrans/internal/engine"
	"github.com/danmuck/clicktrans/internal/host"
	"github.com/danmuck/clicktrans/internal/logging"
	"github.com/danmuck/clicktrans/internal/observability"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout *os.File, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "manifest":
			return runManifest(args[1:], stdout, stderr)
		case "config":
			return runConfig(args[1:], stdout, stderr)
		case "version":
			fmt.Fprintf(stdout, "clicktrans-host %s\n", version)
			return 0
		case "help", "-h", "--help":
			usage(stderr)
			return 0
		}
	}
	// Anything else is what the browser passes on launch: the caller
	// origin, or the manifest path and extension id, and on Windows a
	// --parent-window handle.
	return serve(args, stdin, stdout, stderr)
}

func serve(launchArgs []string, stdin *os.File, stdout *os.File, stderr io.Writer) int {
	if term.IsTerminal(int(stdin.Fd())) {
		fmt.Fprintln(stderr, "clicktrans-host: stdin is a terminal; the browser starts this program")
		usage(stderr)
		return 2
	}
	start := time.Now()

	cfgPath := config.DefaultPath()
	cfg, cfgErr := config.LoadHostConfig(cfgPath)
	if cfgErr != nil {
		cfg = config.DefaultHostConfig()
	}

	logger := logging.ConfigureRuntime(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logging.Close()
	logger = logger.With().Str("session", uuid.NewString()).Logger()
	logger.Debug().Strs("args", launchArgs).Str("config", cfgPath).Str("version", version).Msg("host started")

	metrics := observability.NewSessionMetrics()
	var applier host.Applier
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("config rejected")
		applier = host.Failing(cfgErr)
	} else {
		applier = engine.New(engine.Options{
			Namespaces:   cfg.Namespaces,
			BackupSuffix: cfg.BackupSuffix,
			Logger:       logger,
			Metrics:      metrics,
		})
	}

	h := host.New(stdin, stdout, cfg.Limits(), applier, logger)
	stop := host.ExitOnSignal(h.Responder(), func(code int) {
		logger.Info().Msg("signal received, exiting")
		logging.Close()
		os.Exit(code)
	})
	defer stop()

	resp, err := h.Run()
	if cerr := stdout.Close(); cerr != nil && err == nil {
		logger.Warn().Err(cerr).Msg("stdout close failed")
	}
	metrics.Finish(start, time.Now())
	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn().Err(werr).Str("path", cfg.MetricsTextfile).Msg("metrics textfile not written")
		}
	}
	if err != nil {
		return 1
	}
	logger.Info().
		Bool("success", resp.Success).
		Int("updated_files", len(resp.UpdatedFiles)).
		Int("errors", len(resp.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("session finished")
	return 0
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage:
  clicktrans-host                       native messaging mode (started by the browser)
  clicktrans-host manifest [flags]      write the browser host manifest
  clicktrans-host config init|validate|path [flags]
  clicktrans-host version
`)
}
