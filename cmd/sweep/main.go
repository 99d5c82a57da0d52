// Package main is the entry point for the reachability sweep tool.
package main

import "server-sweep/cmd/sweep/cmd"

func main() {
	cmd.Execute()
}
