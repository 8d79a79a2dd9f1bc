package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ErrUnknownFormat is returned for image formats that cannot be encoded
var ErrUnknownFormat = errors.New("unknown image format")

// Supported output formats
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// ImageData contains loaded image data as a linear Color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// At returns the color at (x, y) with (0, 0) at the top-left
func (d *ImageData) At(x, y int) core.Color {
	return d.Pixels[y*d.Width+x]
}

// LoadImage loads a PNG, JPEG, BMP or TIFF image and converts it to a Color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header; bmp and tiff register themselves on import
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromRGBA(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// MeanAbsoluteError returns the mean per-channel absolute difference between two images
func MeanAbsoluteError(a, b *ImageData) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pixels) == 0 {
		return 0, nil
	}

	total := 0.0
	for i := range a.Pixels {
		d := a.Pixels[i].Subtract(b.Pixels[i])
		total += math.Abs(d.X) + math.Abs(d.Y) + math.Abs(d.Z)
	}
	return total / float64(3*len(a.Pixels)), nil
}

// FormatFromPath returns the output format implied by a file extension
func FormatFromPath(path string) (string, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseFormat normalizes a format name such as "jpg" or "TIF"
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// EncodeImage writes img to w in the given format
func EncodeImage(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// SaveImage writes img to filename, choosing the format from the extension
func SaveImage(filename string, img image.Image) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ScaleImage resamples img by factor using Catmull-Rom filtering
func ScaleImage(img image.Image, factor float64) *image.RGBA {
	bounds := img.Bounds()
	width := max(1, int(math.Round(float64(bounds.Dx())*factor)))
	height := max(1, int(math.Round(float64(bounds.Dy())*factor)))
	return ResizeImage(img, width, height)
}

// ResizeImage resamples img to exactly width x height
func ResizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
