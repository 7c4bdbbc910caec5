package commands

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gencraft/gencraft/errors"
	"github.com/gencraft/gencraft/logger"
	"github.com/gencraft/gencraft/plugin"
)

var (
	generateInput   string
	generateOutput  string
	generateProject string
	generateRoot    string
	generateYes     bool
	generateWatch   bool
	generateOptions []string
)

// GenerateCmd runs a generator backend against a spec document.
var GenerateCmd = &cobra.Command{
	Use:   "generate <generator>",
	Short: "Run a generator backend against a spec document",
	Long: `Run a named generator backend.

The name is resolved through the registry, the load cache, the built-in
name table and the workspace's installed packages, in that order. A
missing built-in package can be installed on demand (never in CI).

Examples:
  gencraft generate openapi-tools -i api.yaml -o src/generated
  gencraft generate hey-api -i api.yaml -o src/client --option client=fetch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		options, err := parseOptionFlags(generateOptions)
		if err != nil {
			return err
		}

		runOnce := func(ctx context.Context) error {
			h, err := newHost(generateRoot, generateYes)
			if err != nil {
				return err
			}

			p, err := h.loader.Load(ctx, name, plugin.LoadOptions{Root: h.root})
			if err != nil {
				return err
			}
			if result, ok := h.loader.Describe(name); ok {
				logger.Debugw("Using generator",
					"name", p.Name(),
					"source", result.Source,
					"version", result.Version,
					"path", result.Path,
				)
			}

			opts := plugin.GenerateOptions{
				Root:      h.root,
				Project:   generateProject,
				InputSpec: generateInput,
				OutputDir: generateOutput,
				Options:   options,
			}

			if v, ok := p.(plugin.Validator); ok {
				if err := v.Validate(ctx, opts); err != nil {
					return err
				}
			}

			if err := p.Generate(ctx, opts); err != nil {
				return err
			}

			pterm.Success.Printf("Generator %q finished\n", p.Name())
			return nil
		}

		if generateWatch {
			return runGenerateWatch(cmd.Context(), generateRoot, generateInput, runOnce)
		}
		return runOnce(cmd.Context())
	},
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Path to the source spec document")
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory for generated files")
	GenerateCmd.Flags().StringVarP(&generateProject, "project", "p", "", "Workspace project name")
	GenerateCmd.Flags().StringVar(&generateRoot, "root", "", "Workspace root (default: auto-detected)")
	GenerateCmd.Flags().BoolVarP(&generateYes, "yes", "y", false, "Install missing generator packages without prompting")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Re-run generation when the input spec changes")
	GenerateCmd.Flags().StringArrayVar(&generateOptions, "option", nil, "Backend-specific option as key=value (repeatable)")
}

// parseOptionFlags turns repeated key=value flags into an options map.
func parseOptionFlags(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	options := make(map[string]any, len(raw))
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, errors.Newf("invalid --option %q (expected key=value)", entry)
		}
		options[key] = value
	}
	return options, nil
}
