// Package canvas implements an interactive single-image canvas: it owns the
// loaded image and its viewport transform, turns per-frame input into
// pan/zoom/reset operations and produces the draw commands for the frame.
//
// The canvas never touches a window or GPU directly. Decoding, texture upload
// and text measurement are injected, and the draw commands are executed by
// whatever owns the window.
package canvas

import (
	"errors"
	"image"
	"image/color"

	"gioui.org/f32"

	"github.com/OpenTraceLab/OpenTraceView/pkg/imageload"
	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

// Messages shown instead of the image
const (
	MsgLoadError = "Error loading image, try another."
	MsgNoImage   = "No image."
)

// Border and label styling
const (
	BorderRadius = 8
	BorderWidth  = 2
	LabelSize    = 14
)

var BorderColor = color.NRGBA{A: 0xFF}

// Filter selects texture sampling
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Texture is an opaque, backend-owned texture handle
type Texture interface {
	// Size returns the texture dimensions in pixels
	Size() image.Point
}

// Decoder turns a file path into straight RGBA8 pixels
type Decoder interface {
	Decode(path string) (*image.NRGBA, error)
}

// Uploader hands pixels to the rendering backend
type Uploader interface {
	Upload(img *image.NRGBA, filter Filter) Texture
}

// TextMeasurer reports the size of a single unwrapped line of monospace text
type TextMeasurer interface {
	Measure(text string, sizePx float32) f32.Point
}

// Config holds the zoom bounds of a canvas variant
type Config struct {
	MinScale float32
	MaxScale float32
}

// PrimaryConfig is used by the main image viewer
func PrimaryConfig() Config {
	return Config{MinScale: 0.5, MaxScale: 2.0}
}

// MapConfig is used by the map viewer, which allows zooming further out
func MapConfig() Config {
	return Config{MinScale: 0.3, MaxScale: 2.0}
}

func (c Config) bounds() viewport.Bounds {
	return viewport.Bounds{MinScale: c.MinScale, MaxScale: c.MaxScale}
}

// LoadedImage is the currently displayed image
type LoadedImage struct {
	Path    string
	Texture Texture
}

// Input is the interaction state observed over the canvas for one frame
type Input struct {
	Hovered       bool
	Pointer       f32.Point
	HasPointer    bool
	Dragged       bool
	DragDelta     f32.Point
	DoubleClicked bool
	Scrolled      bool
	ScrollY       float32 // positive zooms in
}

// Response reports what happened on the canvas this frame
type Response struct {
	Hovered       bool
	Dragged       bool
	DoubleClicked bool
	ImageRect     viewport.Rect
	Readout       *Readout
	HoverText     string
}

// Frame is the output of one Render call
type Frame struct {
	Commands []Command
	Response Response
}

func (f *Frame) add(cmds ...Command) {
	f.Commands = append(f.Commands, cmds...)
}

// ImageCanvas shows one image in a pannable, zoomable viewport.
//
// An ImageCanvas is owned by the UI goroutine; it is not safe for
// concurrent use.
type ImageCanvas struct {
	cfg      Config
	decoder  Decoder
	uploader Uploader
	measurer TextMeasurer

	image     *LoadedImage
	transform *viewport.Transform
	err       string

	logf func(format string, args ...any)
}

// New creates an empty canvas. A nil measurer falls back to FixedMeasurer.
func New(cfg Config, dec Decoder, up Uploader, tm TextMeasurer) *ImageCanvas {
	if tm == nil {
		tm = FixedMeasurer{}
	}
	return &ImageCanvas{
		cfg:       cfg,
		decoder:   dec,
		uploader:  up,
		measurer:  tm,
		transform: viewport.NewTransform(cfg.bounds()),
	}
}

// SetLogger installs a callback for view-level log lines
func (c *ImageCanvas) SetLogger(logf func(format string, args ...any)) {
	c.logf = logf
}

func (c *ImageCanvas) Config() Config {
	return c.cfg
}

// Path returns the path of the loaded image, or "" if none
func (c *ImageCanvas) Path() string {
	if c.image == nil {
		return ""
	}
	return c.image.Path
}

// Image returns the loaded image, which is retained even while an error
// message is displayed.
func (c *ImageCanvas) Image() *LoadedImage {
	return c.image
}

// Err returns the message currently displayed instead of the image
func (c *ImageCanvas) Err() string {
	return c.err
}

func (c *ImageCanvas) Transform() *viewport.Transform {
	return c.transform
}

// Load decodes and uploads path. Loading the path that is already displayed
// does nothing. On failure the previous image is kept but the error message
// takes precedence when rendering.
func (c *ImageCanvas) Load(path string) error {
	if c.image != nil && c.image.Path == path {
		return nil
	}

	pixels, err := c.decoder.Decode(path)
	if err != nil {
		c.err = MsgLoadError
		c.log("[LOAD] %s failed: %v", path, err)
		var le *imageload.LoadError
		if errors.As(err, &le) {
			return err
		}
		return &imageload.LoadError{Path: path, Err: err}
	}

	tex := c.uploader.Upload(pixels, FilterLinear)
	c.image = &LoadedImage{Path: path, Texture: tex}
	c.transform = viewport.NewTransform(c.cfg.bounds())
	c.err = ""
	size := tex.Size()
	c.log("[LOAD] %s (%dx%d)", path, size.X, size.Y)
	return nil
}

// Render applies this frame's input and returns the draw commands for
// container, in screen pixels.
func (c *ImageCanvas) Render(container viewport.Rect, in Input) Frame {
	var f Frame
	switch {
	case c.err != "":
		f.add(Text{Pos: container.Min, Text: c.err, Size: LabelSize})
		return f
	case c.image == nil:
		f.add(Text{Pos: container.Min, Text: MsgNoImage, Size: LabelSize})
		return f
	}

	hovered := in.Hovered && in.HasPointer
	f.Response = Response{
		Hovered:       hovered,
		Dragged:       in.Dragged,
		DoubleClicked: in.DoubleClicked,
	}
	if hovered {
		f.Response.HoverText = c.image.Path
	}

	imgSize := sizeOf(c.image.Texture)
	t := c.transform
	if !t.Initialized() {
		t.Fit(imgSize, container.Size())
	}
	if !t.Initialized() {
		// No usable container yet
		return f
	}

	if in.Dragged {
		t.Pan(in.DragDelta)
	}
	if in.Scrolled {
		t.ZoomAtPoint(in.ScrollY, hovered, container, imgSize, in.Pointer)
	}
	if in.DoubleClicked {
		t.Reset(imgSize, container.Size())
		c.log("[VIEWPORT] Reset view to fit (scale %.3f)", t.Scale())
	}

	rect := t.ImageRect(container, imgSize)
	f.Response.ImageRect = rect
	f.add(
		StrokeRRect{Rect: rect, Radius: BorderRadius, Width: BorderWidth, Color: BorderColor, Outside: true},
		Image{Texture: c.image.Texture, Rect: rect, UV: FullUV, Filter: FilterLinear},
	)

	if hovered && rect.Contains(in.Pointer) {
		r := NewReadout(in.Pointer, rect, imgSize, c.measurer)
		f.Response.Readout = &r
		f.add(r.Commands()...)
	}
	return f
}

func (c *ImageCanvas) log(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}

func sizeOf(t Texture) f32.Point {
	s := t.Size()
	return f32.Pt(float32(s.X), float32(s.Y))
}
