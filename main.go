package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mini15/mini15asm/config"
	"github.com/mini15/mini15asm/listview"
	"github.com/mini15/mini15asm/pipeline"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config directory)")
		viewMode    = flag.Bool("view", false, "Open the interactive listing/symbol-table viewer after assembling")
		verbose     = flag.Bool("verbose", false, "Print a diagnostic summary even on success")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("mini15asm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	baseNames := flag.Args()
	if len(baseNames) == 0 {
		fmt.Fprintln(os.Stderr, "usage: mini15asm [options] file [file...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mini15asm: %s\n", err)
		os.Exit(1)
	}

	exitCode := 0
	var lastOutcome *pipeline.Outcome

	for _, base := range baseNames {
		outcome, err := pipeline.AssembleFile(base, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mini15asm: %s: %s\n", base, err)
			exitCode = 1
			continue
		}
		lastOutcome = outcome

		if outcome.Diagnostics.HasErrors() {
			fmt.Fprintf(os.Stderr, "%s: assembly failed:\n%s\n", base, outcome.Diagnostics.Error())
			exitCode = 1
			continue
		}
		if *verbose {
			fmt.Printf("%s: assembled, %d instruction word(s), %d data word(s)\n", base, outcome.Encoded.IC, outcome.Encoded.DC)
		}
		outcome.Diagnostics.PrintWarnings(func(s string) { fmt.Fprintln(os.Stderr, s) })
	}

	if *viewMode && lastOutcome != nil {
		if err := listview.Run(lastOutcome); err != nil {
			fmt.Fprintf(os.Stderr, "mini15asm: viewer: %s\n", err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
