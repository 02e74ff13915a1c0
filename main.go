package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maxamas123/district-line-tracker/internal/di"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to stdout and enable debug level")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "dlt: %s\n", err)
		os.Exit(1)
	}
}
