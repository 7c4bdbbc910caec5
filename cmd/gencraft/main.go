package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gencraft/gencraft/cmd/gencraft/commands"
	"github.com/gencraft/gencraft/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gencraft",
	Short: "gencraft - code generator plugin host",
	Long: `gencraft - invoke interchangeable code generator backends by name.

Generator backends are plugins resolved at call time: bundled, already
installed in the workspace, or fetched on demand with the workspace's
package manager.

Available commands:
  generate - Run a generator backend against a spec document
  plugins  - Inspect and install generator plugins
  version  - Show version information

Examples:
  gencraft generate openapi-tools -i api.yaml -o src/generated
  gencraft plugins list
  gencraft plugins install hey-api`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity+1); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit structured JSON logs")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.PluginsCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
