package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Claudiof5/eon-disaster-sim/internal/cli"
	"github.com/Claudiof5/eon-disaster-sim/internal/eon"
	"github.com/Claudiof5/eon-disaster-sim/internal/version"
)

var (
	// overridable command handler for easier unit-testing
	runEon = cli.RunEon
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command logic and returns an exit code (0 = success).
// Keeping this function small makes unit-testing straightforward.
func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cmd := args[0]
	cmdArgs := args[1:]

	var err error
	switch cmd {
	case "run":
		err = runEon(cmdArgs)
	case "version":
		fmt.Println(version.Full())
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var invErr *eon.InvariantError
		if errors.As(err, &invErr) {
			return 2
		}
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: eon-sim <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run       Run a disaster-reaction simulation scenario to completion")
	fmt.Fprintln(os.Stderr, "  version   Print version information")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config string   path to scenario driver config file (default config.eon.yaml)")
}
