// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/ratonaut/internal/app"
	"github.com/relabs-tech/ratonaut/internal/config"
)

func main() {
	configPath := flag.String("config", "./ratonaut_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunProfile(flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}
