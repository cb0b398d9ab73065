// Command quorumbot runs the multi-model chat bot, or asks the quorum a
// single question from the terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
