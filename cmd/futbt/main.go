package main

import (
	"os"

	"futbt/cmd/futbt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
