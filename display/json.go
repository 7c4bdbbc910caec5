// Package display renders command results for either a human at a
// terminal or a machine consumer, switching on the --json flag and
// terminal detection.
package display

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ShouldOutputJSON reports whether a command should emit JSON: an
// explicit --json flag wins, otherwise a non-terminal stdout (piped or
// captured output) defaults to machine-readable.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return !stdoutIsTerminal()
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}
	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return !stdoutIsTerminal()
}

// MarshalJSON marshals compactly for machine consumers and with
// indentation when a human is reading.
func MarshalJSON(v interface{}) ([]byte, error) {
	if stdoutIsTerminal() {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// OutputJSON marshals v and prints it to stdout.
func OutputJSON(v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
