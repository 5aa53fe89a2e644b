// Package imageload decodes raster images from disk into straight
// (non-premultiplied) RGBA8 buffers ready for texture upload.
//
// PNG, JPEG and GIF come from the standard library; WebP, BMP and TIFF are
// registered from golang.org/x/image.
package imageload

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned when the file is not in a registered format
var ErrUnsupported = errors.New("imageload: unsupported image format")

// LoadError reports a failed load of Path
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Info describes an image file without decoding its pixels
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// FileDecoder decodes images from the local filesystem
type FileDecoder struct{}

// Decode reads path and returns its pixels as straight RGBA8
func (FileDecoder) Decode(path string) (*image.NRGBA, error) {
	return Decode(path)
}

// Decode reads path and returns its pixels as straight RGBA8
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: classify(err)}
	}
	return ToNRGBA(img), nil
}

// Probe reads only the header of path
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, &LoadError{Path: path, Err: classify(err)}
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// ToNRGBA converts any image to a tightly packed NRGBA buffer with its
// origin at (0,0). Palette, gray, YCbCr and premultiplied inputs are all
// normalised the same way.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func classify(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupported
	}
	return err
}
