package commands

import (
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/terse-protocol/terse-go/pkg/inspect"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// RunStat prints aggregate statistics for a framed payload.
func RunStat(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	hexInput := fs.Bool("hex", false, "Treat the argument as a hex-encoded payload")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if len(fs.Args()) == 0 {
		fmt.Fprintln(stderr, "Error: no input specified")
		fmt.Fprintln(stderr, "\nUsage: terse-inspect stat [--hex] <file | - | hex>")
		return exitCommandError
	}

	payload, err := readPayload(fs.Args()[0], *hexInput)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	stats, err := inspect.Stat(payload)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid payload: %v\n", err)
		return exitInvalid
	}

	printStats(stdout, stats)
	return exitSuccess
}

func printStats(w io.Writer, stats *inspect.Stats) {
	fmt.Fprintf(w, "Payload:    %s (%s body)\n",
		inspect.FormatSize(stats.PayloadSize), inspect.FormatSize(stats.BodySize))

	header := "raw"
	if stats.Compressed {
		header = "compressed"
	}
	encoding := "primary"
	if stats.Fallback {
		encoding = "fallback"
	}
	fmt.Fprintf(w, "Header:     %s|%s\n", header, encoding)

	if stats.Fallback {
		return
	}

	fmt.Fprintf(w, "Top tag:    %s\n", inspect.TagName(stats.TopTag))
	fmt.Fprintf(w, "Values:     %d\n", stats.Values)
	fmt.Fprintf(w, "Max depth:  %d\n", stats.MaxDepth)

	if len(stats.TagCounts) == 0 {
		return
	}
	fmt.Fprintln(w, "Tags:")

	tags := make([]wire.TypeTag, 0, len(stats.TagCounts))
	for tag := range stats.TagCounts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if stats.TagCounts[tags[i]] != stats.TagCounts[tags[j]] {
			return stats.TagCounts[tags[i]] > stats.TagCounts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	for _, tag := range tags {
		fmt.Fprintf(w, "  %-14s %d\n", inspect.TagName(tag), stats.TagCounts[tag])
	}
}
