// main package for gridpatch command-line tool
// Package main is the entry point for the gridpatch CLI.
package main

import "gridpatch.dev/pkg/gridpatch/cmd"

func main() {
	cmd.Execute()
}
