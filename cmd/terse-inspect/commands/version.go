package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/terse-protocol/terse-go/pkg/version"
)

// RunVersion prints the tool and wire-format versions. With -requires,
// it instead checks the given wire-format version against this build,
// so scripts can gate on compatibility before feeding payloads in.
func RunVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	requires := fs.String("requires", "", "Wire-format version the caller needs")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	current, err := version.Parse(version.Current)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if *requires == "" {
		fmt.Fprintf(stdout, "terse-inspect %s (wire format %s)\n", version.Library, current)
		return exitSuccess
	}

	required, err := version.Parse(*requires)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !current.Compatible(required) {
		fmt.Fprintf(stdout, "wire format %s is not compatible with required %s\n", current, required)
		return exitInvalid
	}
	fmt.Fprintf(stdout, "wire format %s is compatible with required %s\n", current, required)
	return exitSuccess
}
