package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceView/internal/config"
	appui "github.com/OpenTraceLab/OpenTraceView/internal/ui"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "otview",
	Short: "OpenTraceView - pan and zoom viewer for board photos and scans",
	Long: `OpenTraceView (otview) displays a raster image fitted to its window and
lets you drag to pan, scroll to zoom around the cursor and double-click to
fit again. Hovering the image shows the pixel under the cursor.

Examples:
  otview view board.png              # Open an image
  otview view --map floorplan.webp   # Wider zoom-out range
  otview info scan.jpg --container 800x600
  otview config init                 # Write the default config file`,
	Version:       appui.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config directory)")
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// loadConfig reads the config file, falling back to defaults when absent
func loadConfig() (*config.Config, *config.Loader, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", loader.ConfigPath(), err)
	}
	return cfg, loader, nil
}

func variantFor(mapMode bool) config.Variant {
	if mapMode {
		return config.VariantMap
	}
	return config.VariantViewer
}
