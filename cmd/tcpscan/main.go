package main

import (
	"github.com/zan8in/gologger"

	"tcpscan/pkg/config"
	"tcpscan/pkg/runner"
)

func main() {
	options := config.ParseOptions()

	config.ShowBanner()

	r, err := runner.New(options)
	if err != nil {
		gologger.Fatal().Msgf("could not create runner: %s", err)
	}

	if err := r.Run(); err != nil {
		gologger.Fatal().Msgf("run failed: %s", err)
	}
}
