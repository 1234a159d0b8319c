// Package main is the entry point for the chalktalk CLI.
//
// Usage:
//
//	chalktalk [flags] <command> [args]
//
// Commands:
//
//	serve    - Run the question/answer server (HTTP + SSE + websocket)
//	ask      - Ask a question and print the explanation and scene
//	play     - Play a scene as a terminal animation
//	render   - Export a scene as SVG frames
//	config   - Manage backend contexts
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/chalktalk/chalktalk/cmd/chalktalk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
