package main

import (
	"os"
	"strconv"
	"strings"

	"phonebook-client/internal/cli"
)

func isRecordID(s string) bool {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}

func rewriteDirectLookupArgs(argv []string) []string {
	// Convenience: `phonebook <id>` works like `phonebook find id <id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first
	// (`phonebook --addr host:1 4`), so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the id is never
	// swallowed by accident.
	valueFlags := map[string]bool{
		"--config":         true,
		"--addr":           true,
		"--timeout":        true,
		"--format":         true,
		"--log-file":       true,
		"--metrics-listen": true,
	}
	boolFlags := map[string]bool{
		"--pretty":  true,
		"--verbose": true,
		"-v":        true,
	}

	lookup := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "find", "id")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isRecordID(argv[i+1]) {
				return lookup(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		if isRecordID(a) {
			return lookup(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cli.Execute(cmd); err != nil {
		os.Exit(1)
	}
}
