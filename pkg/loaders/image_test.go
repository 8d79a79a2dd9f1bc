package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func colorsClose(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance && math.Abs(a.Z-b.Z) <= tolerance
}

// Lossless formats round trip through SaveImage and LoadImage
func TestSaveAndLoadImage(t *testing.T) {
	expected := map[[2]int]core.Color{
		{0, 0}: core.NewColor(1, 1, 1),
		{1, 0}: core.NewColor(1, 0, 0),
		{0, 1}: core.NewColor(0, 1, 0),
		{1, 1}: core.NewColor(0, 0, 1),
	}

	for _, ext := range []string{"png", "bmp", "tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "render."+ext)
			if err := SaveImage(path, testImage()); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}

			imageData, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if imageData.Width != 2 || imageData.Height != 2 {
				t.Fatalf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
			}

			for pos, want := range expected {
				if got := imageData.At(pos[0], pos[1]); !colorsClose(got, want, 1e-3) {
					t.Errorf("Pixel %v: expected %v, got %v", pos, want, got)
				}
			}
		})
	}
}

func TestSaveImageJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.jpg")
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	if err := SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	imageData, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	// Lossy, but a flat grey survives closely
	if got := imageData.At(8, 8); !colorsClose(got, core.NewColor(0.5, 0.5, 0.5), 0.03) {
		t.Errorf("Expected mid grey, got %v", got)
	}
}

func TestLoadImageNonExistent(t *testing.T) {
	if _, err := LoadImage("nonexistent.png"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{"JPG", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"bmp", FormatBMP, false},
		{"tif", FormatTIFF, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("Expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, %v; expected %q", tt.input, got, err, tt.expected)
			}
		})
	}

	if format, err := FormatFromPath("out/render_1.TIFF"); err != nil || format != FormatTIFF {
		t.Errorf("FormatFromPath = %q, %v", format, err)
	}
}

func TestEncodeImageUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, testImage(), "webp"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestScaleImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 100, 50, 255
	}

	scaled := ScaleImage(img, 0.5)
	if scaled.Bounds().Dx() != 20 || scaled.Bounds().Dy() != 10 {
		t.Fatalf("Expected 20x10, got %v", scaled.Bounds())
	}

	// A flat image stays flat after filtering
	c := scaled.RGBAAt(10, 5)
	if c.R < 198 || c.R > 202 || c.G < 98 || c.G > 102 || c.A != 255 {
		t.Errorf("Unexpected resampled color %v", c)
	}

	if tiny := ScaleImage(img, 0.001); tiny.Bounds().Dx() != 1 || tiny.Bounds().Dy() != 1 {
		t.Errorf("Scaled size should clamp to 1x1, got %v", tiny.Bounds())
	}
}

func TestMeanAbsoluteError(t *testing.T) {
	a := &ImageData{Width: 1, Height: 2, Pixels: []core.Color{core.NewColor(0, 0, 0), core.NewColor(1, 1, 1)}}
	b := &ImageData{Width: 1, Height: 2, Pixels: []core.Color{core.NewColor(0.5, 0.5, 0.5), core.NewColor(1, 1, 1)}}

	mae, err := MeanAbsoluteError(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(mae-0.25) > 1e-12 {
		t.Errorf("Expected 0.25, got %f", mae)
	}

	c := &ImageData{Width: 2, Height: 1, Pixels: a.Pixels}
	if _, err := MeanAbsoluteError(a, c); err == nil {
		t.Error("Expected error for mismatched sizes")
	}
}
