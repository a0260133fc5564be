package main

import (
	"flag"
	"os"

	"github.com/louisbranch/scrapectl/internal/platform/config"
	"github.com/louisbranch/scrapectl/internal/tools/cmdgen"
)

func main() {
	cfg, err := cmdgen.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := cmdgen.Run(cfg, os.Stderr); err != nil {
		config.Exitf("generate commands: %v", err)
	}
}
