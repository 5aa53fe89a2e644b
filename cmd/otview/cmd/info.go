package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gioui.org/f32"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceView/pkg/imageload"
	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

var (
	infoContainer string
	infoMap       bool
)

var errBadContainer = errors.New("container must look like WIDTHxHEIGHT with positive sizes")

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show image format and dimensions",
	Long: `Prints the format and pixel size of an image without opening a window.

With --container the initial fit is computed as the viewer would show it in
a canvas of that size.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVar(&infoContainer, "container", "", "canvas size to fit into, e.g. 800x600")
	infoCmd.Flags().BoolVar(&infoMap, "map", false, "report the map zoom bounds")
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	info, err := imageload.Probe(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Image: %s\n", info.Path)
	fmt.Fprintf(out, "  Format: %s\n", info.Format)
	fmt.Fprintf(out, "  Size: %d x %d px\n", info.Width, info.Height)

	if infoContainer == "" {
		return nil
	}
	container, err := parseContainer(infoContainer)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	variant := variantFor(infoMap)
	b := cfg.Bounds(variant)
	t := viewport.NewTransform(viewport.Bounds{MinScale: b.MinScale, MaxScale: b.MaxScale})
	imgSize := f32.Pt(float32(info.Width), float32(info.Height))
	t.Fit(imgSize, container)
	if !t.Initialized() {
		fmt.Fprintln(out, "  Fit: image has no pixels")
		return nil
	}
	r := t.ImageRect(viewport.RectFromSize(container), imgSize)

	fmt.Fprintf(out, "Fit in %.0fx%.0f (%s bounds %.2f - %.2f):\n", container.X, container.Y, variant, b.MinScale, b.MaxScale)
	fmt.Fprintf(out, "  Scale: %.4f\n", t.Scale())
	fmt.Fprintf(out, "  Rect: (%.1f, %.1f) - (%.1f, %.1f)\n", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	if s := t.Scale(); s < b.MinScale || s > b.MaxScale {
		fmt.Fprintln(out, "  Note: fit scale is outside the zoom bounds; the first scroll clamps it")
	}
	return nil
}

// parseContainer reads "WxH" into a size in pixels
func parseContainer(s string) (f32.Point, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return f32.Point{}, fmt.Errorf("%q: %w", s, errBadContainer)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return f32.Point{}, fmt.Errorf("%q: %w", s, errBadContainer)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return f32.Point{}, fmt.Errorf("%q: %w", s, errBadContainer)
	}
	if w <= 0 || h <= 0 {
		return f32.Point{}, fmt.Errorf("%q: %w", s, errBadContainer)
	}
	return f32.Pt(float32(w), float32(h)), nil
}
