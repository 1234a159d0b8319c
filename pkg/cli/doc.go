// Package cli provides shared plumbing for the chalktalk command-line
// tool: backend context configuration, output formatting, scene file
// loading, and terminal UI chrome.
//
// Configuration lives in ~/.chalktalk/config.yaml and supports multiple
// named backend contexts similar to kubectl:
//
//	cfg, err := cli.LoadConfig()
//	ctx, err := cfg.ResolveContext("") // current context
package cli
