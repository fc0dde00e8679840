package main

import (
	"log"

	"stock-strategy/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Local development reads config from a .env file; missing is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
