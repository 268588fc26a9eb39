package main

import (
	"os"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli"
	"github.com/johnmschoonover/multi-llm-hosting/pkg/version"
)

var (
	buildVersion string
	commit       string
	date         string
)

func main() {
	if buildVersion != "" {
		version.Set(buildVersion, commit, date)
	}
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
