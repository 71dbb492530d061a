// Command xrsim drives the device simulator from the command line: it
// writes the runtime manifest a loader discovers it through, runs a
// scripted session against the simulated headset, and lists what the
// simulated compositor supports.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

const usage = `usage: xrsim <command> [flags]

commands:
  manifest   write the runtime manifest
  run        bring up a session, render frames and tear it down
  formats    list the supported swapchain formats
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "manifest":
		err = manifestCmd(args[1:], stdout)
	case "run":
		err = runCmd(args[1:], stdout, stderr)
	case "formats":
		err = formatsCmd(stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "xrsim: unknown command %q\n\n%s", args[0], usage)
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "xrsim %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
