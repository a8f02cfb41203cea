package main

import (
	"flag"
	"fmt"
	"os"

	"meshagotchi/internal/di"
	"meshagotchi/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging and console output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "meshagotchi: %s\n", err)
		os.Exit(1)
	}
}
