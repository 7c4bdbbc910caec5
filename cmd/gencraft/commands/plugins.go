package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gencraft/gencraft/display"
	"github.com/gencraft/gencraft/plugin"
)

// pluginInfo is the machine-readable shape of a plugins list row.
type pluginInfo struct {
	Name    string `json:"name"`
	Package string `json:"package,omitempty"`
	Source  string `json:"source"`
}

var (
	installRoot    string
	installManager string
	installForce   bool
	installTimeout time.Duration
	installProd    bool
)

// PluginsCmd groups plugin inspection and installation.
var PluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect and install generator plugins",
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known generator plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHost("", false)
		if err != nil {
			return err
		}

		var infos []pluginInfo
		for _, name := range h.registry.List() {
			infos = append(infos, pluginInfo{Name: name, Source: string(plugin.SourceBundled)})
		}
		for _, name := range plugin.BuiltinNames() {
			if h.registry.Has(name) {
				continue
			}
			infos = append(infos, pluginInfo{
				Name:    name,
				Package: plugin.ResolvePackageName(name, h.cfg.Plugin.Aliases),
				Source:  string(plugin.SourceNpm),
			})
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(infos)
		}

		rows := pterm.TableData{{"NAME", "PACKAGE", "SOURCE"}}
		for _, info := range infos {
			pkg := info.Package
			if pkg == "" {
				pkg = "-"
			}
			rows = append(rows, []string{info.Name, pkg, info.Source})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var pluginsInstallCmd = &cobra.Command{
	Use:   "install <generator>",
	Short: "Install a generator plugin package",
	Long: `Install the package backing a generator name.

Short names are mapped through the built-in table and configured
aliases; anything else is treated as a package identifier directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Explicit install is its own consent; no prompt needed.
		h, err := newHost(installRoot, true)
		if err != nil {
			return err
		}

		pkg := plugin.ResolvePackageName(args[0], h.cfg.Plugin.Aliases)

		err = h.installer.Install(cmd.Context(), pkg, plugin.InstallOptions{
			Dev:     h.cfg.Install.Dev && !installProd,
			Manager: installManager,
			Timeout: installTimeout,
			Force:   installForce,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Installed %s\n", pkg)
		return nil
	},
}

func init() {
	pluginsInstallCmd.Flags().StringVar(&installRoot, "root", "", "Workspace root (default: auto-detected)")
	pluginsInstallCmd.Flags().StringVar(&installManager, "manager", "", "Package manager to use (npm, yarn, pnpm, bun; default: detect)")
	pluginsInstallCmd.Flags().BoolVar(&installForce, "force", false, "Install even if the package already resolves")
	pluginsInstallCmd.Flags().DurationVar(&installTimeout, "timeout", 0, "Install timeout (default: from config)")
	pluginsInstallCmd.Flags().BoolVar(&installProd, "prod", false, "Install as a production dependency instead of a dev dependency")

	PluginsCmd.AddCommand(pluginsListCmd)
	PluginsCmd.AddCommand(pluginsInstallCmd)
}
