package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/danmuck/clicktrans/internal/config"
)

func runConfig(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "config: expected init, validate or path")
		return 2
	}
	switch args[0] {
	case "init":
		fs := pflag.NewFlagSet("config init", pflag.ContinueOnError)
		fs.SetOutput(stderr)
		output := fs.String("output", config.DefaultPath(), "output path for the config template")
		force := fs.Bool("force", false, "overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if err := config.WriteTemplate(*output, *force); err != nil {
			fmt.Fprintf(stderr, "config init: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote config template to %s\n", *output)
		return 0
	case "validate":
		fs := pflag.NewFlagSet("config validate", pflag.ContinueOnError)
		fs.SetOutput(stderr)
		input := fs.String("input", config.DefaultPath(), "config path to validate")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		cfg, err := config.LoadHostConfig(*input)
		if err != nil {
			fmt.Fprintf(stderr, "config validate: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "validated %s (namespaces: %v)\n", *input, cfg.Namespaces)
		return 0
	case "path":
		fmt.Fprintln(stdout, config.DefaultPath())
		return 0
	default:
		fmt.Fprintf(stderr, "config: unknown command %q\n", args[0])
		return 2
	}
}
