// Package main is the entry point for the agentic binary.
// It delegates immediately to the CLI command tree.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/cli"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/logging"
)

func main() {
	// Provider keys and Razorpay secrets commonly live in a local .env file.
	// A missing file is not an error.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Logger().Error("fatal error", "err", err)
		os.Exit(1)
	}
}
