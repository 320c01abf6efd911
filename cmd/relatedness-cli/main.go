package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("relatedness-cli: %v", err)
	}
}
