package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitInvalid      = 2
)

// readInput loads bytes from a file path, or from stdin when the path
// is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// readPayload loads a framed payload. With hexInput set, the argument is
// the payload itself as a hex string (spaces allowed).
func readPayload(arg string, hexInput bool) ([]byte, error) {
	if hexInput {
		data, err := hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %w", err)
		}
		return data, nil
	}
	return readInput(arg)
}

// writeOutput writes bytes to a file, or to w when path is empty.
func writeOutput(path string, data []byte, w io.Writer) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
