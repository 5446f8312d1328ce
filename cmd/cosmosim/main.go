package main

import (
	"os"
)

// main runs the cosmosim CLI and exits with status 1 on any error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
