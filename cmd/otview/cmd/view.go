package cmd

import (
	"log"
	"os"
	"path/filepath"

	"gioui.org/app"
	"github.com/spf13/cobra"

	appui "github.com/OpenTraceLab/OpenTraceView/internal/ui"
)

var (
	viewMap      bool
	viewMinScale float32
	viewMaxScale float32
)

var viewCmd = &cobra.Command{
	Use:   "view [image]",
	Short: "Open the interactive viewer",
	Long: `Opens the Gio viewer window, optionally with an image already loaded.

Controls:
  Drag          - Pan
  Scroll Wheel  - Zoom around the cursor
  Double Click  - Fit image to window

Supported formats: PNG, JPEG, WebP, GIF, BMP, TIFF.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().BoolVar(&viewMap, "map", false, "use the map zoom bounds")
	viewCmd.Flags().Float32Var(&viewMinScale, "min-scale", 0, "override the minimum zoom scale")
	viewCmd.Flags().Float32Var(&viewMaxScale, "max-scale", 0, "override the maximum zoom scale")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, loader, err := loadConfig()
	if err != nil {
		return err
	}

	variant := variantFor(viewMap)
	bounds := cfg.Bounds(variant)
	if cmd.Flags().Changed("min-scale") {
		bounds.MinScale = viewMinScale
	}
	if cmd.Flags().Changed("max-scale") {
		bounds.MaxScale = viewMaxScale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	if verbose {
		log.Printf("Config: %s", loader.ConfigPath())
		log.Printf("Variant: %s (%.2f - %.2f)", variant, bounds.MinScale, bounds.MaxScale)
	}

	// Run the Gio application
	go func() {
		w := new(app.Window)
		viewer := appui.New(w, appui.Options{
			Config:  cfg,
			Loader:  loader,
			Variant: variant,
			Path:    path,
			Verbose: verbose,
		})
		if err := viewer.Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
