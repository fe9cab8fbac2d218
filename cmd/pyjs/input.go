package main

import (
	"fmt"
	"io"
	"os"
)

// readSource handles the three input modes:
// 1. Explicit stdin with "-"
// 2. Piped input when no file is given
// 3. A file path
// It returns the source and a display name for it.
func (a *app) readSource(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		if len(args) == 0 && !hasPipedInput(a.stdin) {
			return "", "", usageError("no input: pass a file, '-' or pipe source on stdin")
		}
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", &exitError{code: ExitIOError, err: fmt.Errorf("error reading stdin: %w", err)}
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", &exitError{code: ExitIOError, err: fmt.Errorf("error reading file %s: %w", args[0], err)}
	}
	return string(data), args[0], nil
}

// hasPipedInput detects if there's data piped to stdin. Readers other
// than a terminal count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
