package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sorenmh/infrastructure-shared/group-deploy/internal/groupdeploy/cmd"
)

func main() {
	// Optional .env for local runs; absence is not an error.
	godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
