package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// ErrInvalidProgressiveConfig is returned for progressive settings that cannot drive a render
var ErrInvalidProgressiveConfig = errors.New("invalid progressive configuration")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed; tile N samples from Seed+N
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         0,
		Seed:               42,
	}
}

// Validate checks the progressive configuration
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", ErrInvalidProgressiveConfig, c.TileSize)
	case c.MaxPasses <= 0:
		return fmt.Errorf("%w: max passes %d must be positive", ErrInvalidProgressiveConfig, c.MaxPasses)
	case c.InitialSamples <= 0:
		return fmt.Errorf("%w: initial samples %d must be positive", ErrInvalidProgressiveConfig, c.InitialSamples)
	case c.MaxSamplesPerPixel < c.InitialSamples:
		return fmt.Errorf("%w: max samples %d below initial samples %d",
			ErrInvalidProgressiveConfig, c.MaxSamplesPerPixel, c.InitialSamples)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene Scene, width, height int, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidProgressiveConfig, width, height)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tileRenderer := NewTileRenderer(scene, integrator.NewPathTracingIntegrator(scene.GetBackground()), width, height)

	return &ProgressiveRaytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		workerPool: NewWorkerPool(tileRenderer, config.NumWorkers),
		logger:     logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		}
	}

	completed := 0
	err := pr.workerPool.RenderTiles(ctx, tasks, func(result TileResult) {
		completed++
		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback == nil {
			return
		}
		tileCallback(TileCompletionResult{
			TileX:       tile.Bounds.Min.X / pr.config.TileSize,
			TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
			TileImage:   pr.extractTileImage(tile),
			PassNumber:  passNumber,
			TileNumber:  completed,
			TotalTiles:  len(pr.tiles),
			TotalPasses: pr.config.MaxPasses,
		})
	})
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, err)
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ToRGBA(stats.GetColor()))
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass in a background goroutine and reports on channels.
// All three channels are closed when rendering ends. If options.TileUpdates is false
// the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; tile previews are best effort
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, time.Since(startTime), actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.config.MaxSamplesPerPixel, // Start high, will be reduced
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, ToRGBA(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int
	Sampler         core.Sampler // Tile-owned random stream for deterministic results
}

// NewTile creates a new tile whose sampler is seeded with seed+id
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
