package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/terse-protocol/terse-go/pkg/inspect"
)

// DecodeOptions configures the decode command.
type DecodeOptions struct {
	Hex       bool // input argument is the payload as a hex string
	NoOffsets bool
	Input     string
}

// RunDecode renders a framed payload as an annotated value tree.
func RunDecode(args []string, stdout, stderr io.Writer) int {
	opts, err := parseDecodeArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.Input == "" {
		fmt.Fprintln(stderr, "Error: no input specified")
		printDecodeUsage(stderr)
		return exitCommandError
	}

	payload, err := readPayload(opts.Input, opts.Hex)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	f := inspect.NewFormatter()
	f.ShowOffsets = !opts.NoOffsets

	out, err := f.Dump(payload)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid payload: %v\n", err)
		return exitInvalid
	}

	fmt.Fprint(stdout, out)
	return exitSuccess
}

func parseDecodeArgs(args []string) (DecodeOptions, error) {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	opts := DecodeOptions{}

	fs.BoolVar(&opts.Hex, "hex", false, "Treat the argument as a hex-encoded payload")
	fs.BoolVar(&opts.NoOffsets, "no-offsets", false, "Omit byte offsets from the output")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.Input = remaining[0]
	}

	return opts, nil
}

func printDecodeUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: terse-inspect decode [options] <file | - | hex>

Options:
  --hex         Treat the argument as a hex-encoded payload
  --no-offsets  Omit byte offsets from the output

Examples:
  terse-inspect decode payload.bin
  terse-inspect decode --hex 00112a
  cat payload.bin | terse-inspect decode -`)
}
