package main

import (
	"fmt"
	"os"
	"vizr-mcp/cmd/vizr-mcp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
