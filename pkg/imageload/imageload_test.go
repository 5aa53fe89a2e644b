package imageload

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

func writeFixture(t *testing.T, name string, enc func(*os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := enc(f); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func TestDecodeFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(2, 1, color.RGBA{B: 255, A: 255})

	pal := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{
		color.RGBA{A: 255},
		color.RGBA{R: 255, A: 255},
	})
	pal.SetColorIndex(0, 0, 1)

	tests := []struct {
		name string
		enc  func(*os.File) error
	}{
		{"rgba.png", func(f *os.File) error { return png.Encode(f, src) }},
		{"paletted.gif", func(f *os.File) error { return gif.Encode(f, pal, nil) }},
		{"rgb.bmp", func(f *os.File) error { return bmp.Encode(f, src) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, tt.name, tt.enc)
			img, err := FileDecoder{}.Decode(path)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != image.Rect(0, 0, 3, 2) {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
				t.Errorf("pixel (0,0) = %v, want opaque red", got)
			}
		})
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error %v is not a *LoadError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}
}

func TestToNRGBAStraightAlpha(t *testing.T) {
	// Premultiplied half-transparent red
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.SetRGBA(5, 5, color.RGBA{R: 128, A: 128})

	dst := ToNRGBA(src)
	if dst.Bounds().Min != (image.Point{}) || dst.Bounds().Dx() != 2 {
		t.Fatalf("bounds = %v, want origin-based 2x1", dst.Bounds())
	}
	got := dst.NRGBAAt(0, 0)
	if got.A != 128 || got.R != 255 {
		t.Errorf("pixel = %v, want un-premultiplied red with alpha 128", got)
	}
}

func TestProbe(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 25))
	path := writeFixture(t, "gray.png", func(f *os.File) error { return png.Encode(f, src) })

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.Format != "png" || info.Width != 40 || info.Height != 25 {
		t.Errorf("info = %+v", info)
	}
}
