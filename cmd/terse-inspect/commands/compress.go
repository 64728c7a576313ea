package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/terse-protocol/terse-go/pkg/lz"
)

// RunCompress block-compresses raw bytes. The compressed stream goes to
// the output file, or to stdout when no -o flag is given; the summary
// goes to stderr so piped output stays clean.
func RunCompress(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	outPath := fs.String("o", "", "Output file (default stdout)")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if len(fs.Args()) == 0 {
		fmt.Fprintln(stderr, "Error: no input specified")
		fmt.Fprintln(stderr, "\nUsage: terse-inspect compress [-o out] <file | ->")
		return exitCommandError
	}

	data, err := readInput(fs.Args()[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	compressed := lz.Compress(data)
	if compressed == nil {
		fmt.Fprintf(stderr, "Error: input of %d bytes does not benefit from compression\n", len(data))
		return exitInvalid
	}

	if err := writeOutput(*outPath, compressed, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	fmt.Fprintf(stderr, "compressed %d -> %d bytes (%.1f%%)\n",
		len(data), len(compressed), 100*float64(len(compressed))/float64(len(data)))
	return exitSuccess
}

// RunDecompress expands a block-compressed stream.
func RunDecompress(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	outPath := fs.String("o", "", "Output file (default stdout)")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if len(fs.Args()) == 0 {
		fmt.Fprintln(stderr, "Error: no input specified")
		fmt.Fprintln(stderr, "\nUsage: terse-inspect decompress [-o out] <file | ->")
		return exitCommandError
	}

	data, err := readInput(fs.Args()[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	expanded, err := lz.Decompress(data)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid stream: %v\n", err)
		return exitInvalid
	}

	if err := writeOutput(*outPath, expanded, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}
