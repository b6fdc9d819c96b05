// Package main is the entry point for the nb CLI tool.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/echo-bravo-yahoo/nb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
