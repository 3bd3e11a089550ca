// Package main is the entry point for the pbplineups CLI tool, which imports
// basketball play-by-play, reconstructs five-man stints, and computes
// plus-minus and on/off splits.
package main

import "github.com/pable/go-pbp-lineups/cmd"

func main() {
	cmd.Execute()
}
