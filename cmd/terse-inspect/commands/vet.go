package commands

import (
	"fmt"
	"io"

	"github.com/terse-protocol/terse-go/pkg/inspect"
)

// RunVet validates payload files and reports problems. It exits non-zero
// when any file fails to decode.
func RunVet(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		fmt.Fprintln(stderr, "\nUsage: terse-inspect vet <files...>")
		return exitCommandError
	}

	failed := 0
	for _, path := range args {
		payload, err := readInput(path)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}

		stats, err := inspect.Stat(payload)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}

		if stats.Fallback {
			fmt.Fprintf(stdout, "OK   %s (%s, fallback body)\n",
				path, inspect.FormatSize(stats.PayloadSize))
		} else {
			fmt.Fprintf(stdout, "OK   %s (%s, %s, %d values)\n",
				path, inspect.FormatSize(stats.PayloadSize),
				inspect.TagName(stats.TopTag), stats.Values)
		}
	}

	if failed > 0 {
		fmt.Fprintf(stdout, "\n%d of %d files failed\n", failed, len(args))
		return exitInvalid
	}
	return exitSuccess
}
