package main

import (
	"github.com/joho/godotenv"

	"github.com/saymore/speech-analysis/cmd"
)

func main() {
	// Load credentials and overrides from a local .env when present
	godotenv.Load()

	cmd.Execute()
}
