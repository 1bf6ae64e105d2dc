package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/helmet_sentry/internal/app"
	"github.com/relabs-tech/helmet_sentry/internal/config"
)

func main() {
	configPath := flag.String("config", "./helmet_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting helmet-sentry operator console (MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
