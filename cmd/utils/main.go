package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/cmd/utils/internal/commands"
)

const (
	appName    = "pos-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed")

	case "simulate-order":
		if err := commands.SimulateOrder(ctx, config, logger); err != nil {
			log.Fatalf("Order simulation failed: %v", err)
		}
		logger.Info("Demo order published")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - point-of-sale development utilities

Usage:
  utils <command> [flags]

Commands:
  seed-demo       Create demo groups and hotpot entries on the backend
  simulate-order  Publish a demo takeaway order on the realtime channel
  version         Print version

Config (UTILS namespace):
  backend.url     REST backend base address (default http://localhost:8088)
  nats.url        NATS address (default nats://localhost:4222)
  log.level       Log level (default info)
`, appName)
}
