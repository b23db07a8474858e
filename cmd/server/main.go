package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
