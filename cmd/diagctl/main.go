package main

import "os"

// main runs diagctl, a client for the diagnostics endpoints of a running
// companion server.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
