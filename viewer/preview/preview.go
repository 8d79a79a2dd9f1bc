// Package preview accumulates progressive render output into a single frame for display.
package preview

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Frame is the latest composited image plus a status line. It is safe for concurrent use:
// the render goroutine writes tiles and passes while the UI loop reads snapshots.
type Frame struct {
	mu       sync.Mutex
	img      *image.RGBA
	tileSize int
	status   string
	version  int
	done     bool
	err      error
}

// NewFrame creates an empty frame of the given size
func NewFrame(width, height, tileSize int) *Frame {
	return &Frame{
		img:      image.NewRGBA(image.Rect(0, 0, width, height)),
		tileSize: tileSize,
		status:   "Starting render...",
	}
}

// AddTile copies a finished tile into place
func (f *Frame) AddTile(tile renderer.TileCompletionResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	origin := image.Pt(tile.TileX*f.tileSize, tile.TileY*f.tileSize)
	dst := tile.TileImage.Bounds().Sub(tile.TileImage.Bounds().Min).Add(origin)
	draw.Draw(f.img, dst, tile.TileImage, tile.TileImage.Bounds().Min, draw.Src)

	f.status = fmt.Sprintf("Pass %d/%d  tile %d/%d", tile.PassNumber, tile.TotalPasses, tile.TileNumber, tile.TotalTiles)
	f.version++
}

// AddPass replaces the frame with a completed pass
func (f *Frame) AddPass(pass renderer.PassResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draw.Draw(f.img, f.img.Bounds(), pass.Image, pass.Image.Bounds().Min, draw.Src)
	f.status = fmt.Sprintf("Pass %d  %.1f spp (range %d - %d)",
		pass.PassNumber, pass.Stats.AverageSamples, pass.Stats.MinSamples, pass.Stats.MaxSamplesUsed)
	if pass.IsLast {
		f.status += "  done"
	}
	f.version++
}

// Finish records the end of the render
func (f *Frame) Finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.done = true
	f.err = err
	if err != nil {
		f.status = fmt.Sprintf("Render failed: %v", err)
	}
	f.version++
}

// Snapshot returns a copy of the frame if it changed since version, with the new version
func (f *Frame) Snapshot(version int) (*image.RGBA, string, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if version == f.version {
		return nil, f.status, f.version, false
	}
	cp := image.NewRGBA(f.img.Bounds())
	copy(cp.Pix, f.img.Pix)
	return cp, f.status, f.version, true
}

// Done reports whether the render has finished, and its error if any
func (f *Frame) Done() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done, f.err
}

// Follow drains the progressive render channels into f until they close
func (f *Frame) Follow(passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error) {
	for passChan != nil || tileChan != nil {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			f.AddPass(pass)
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			f.AddTile(tile)
		}
	}
	f.Finish(<-errChan)
}

// WindowSize fits width x height into maxWidth x maxHeight, never scaling up past scale
func WindowSize(width, height, maxWidth, maxHeight int, scale float64) (int, int) {
	s := scale
	if fit := float64(maxWidth) / float64(width); fit < s {
		s = fit
	}
	if fit := float64(maxHeight) / float64(height); fit < s {
		s = fit
	}
	return max(1, int(float64(width)*s)), max(1, int(float64(height)*s))
}
