// terse-inspect is a CLI tool for decoding, validating, and compressing
// framed payloads.
package main

import (
	"fmt"
	"os"

	"github.com/terse-protocol/terse-go/cmd/terse-inspect/commands"
	"github.com/terse-protocol/terse-go/pkg/ext"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	// Built-in structured types so extension payloads dump with names.
	ext.Register()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "decode":
		exitCode = commands.RunDecode(args, os.Stdout, os.Stderr)
	case "stat":
		exitCode = commands.RunStat(args, os.Stdout, os.Stderr)
	case "compress":
		exitCode = commands.RunCompress(args, os.Stdout, os.Stderr)
	case "decompress":
		exitCode = commands.RunDecompress(args, os.Stdout, os.Stderr)
	case "vet":
		exitCode = commands.RunVet(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		exitCode = commands.RunVersion(args, os.Stdout, os.Stderr)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`terse-inspect - framed payload inspection tool

Usage:
  terse-inspect <command> [options] [input]

Commands:
  decode      Render a payload as an annotated value tree
  stat        Show aggregate statistics for a payload
  compress    Block-compress raw bytes
  decompress  Expand a block-compressed stream
  vet         Validate payload files and report problems
  version     Show versions, or check wire-format compatibility

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  terse-inspect decode payload.bin
  terse-inspect decode --hex 00112a
  terse-inspect stat payload.bin
  terse-inspect compress -o body.lz body.bin
  terse-inspect vet captures/*.bin

For command-specific help, run:
  terse-inspect <command> --help`)
}
