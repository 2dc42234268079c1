package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Claudiof5/eon-disaster-sim/internal/cli"
	"github.com/Claudiof5/eon-disaster-sim/internal/eon"
	"github.com/Claudiof5/eon-disaster-sim/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches straight to cli.RunEon, translating its error into the
// exit code convention: 0 clean, 1 configuration error, 2 invariant
// violation (spec §7). "-version" is handled before flag parsing reaches
// RunEon's own flag set, matching the root binary's version shortcut.
func run(args []string) int {
	for _, a := range args {
		if a == "-version" || a == "--version" {
			fmt.Println(version.Full())
			return 0
		}
	}

	err := cli.RunEon(args)
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)

	var invErr *eon.InvariantError
	if errors.As(err, &invErr) {
		return 2
	}
	return 1
}
