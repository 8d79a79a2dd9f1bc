package renderer

import (
	"image"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// darkPixelVariance is the absolute variance below which a black pixel counts as converged
const darkPixelVariance = 1e-6

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      Scene
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integratorInst integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds renders pixels within the specified bounds until each reaches targetSamples
// or converges. Tiles must not overlap when rendered concurrently.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	camera := tr.scene.GetCamera()
	samplingConfig := tr.scene.GetSamplingConfig()

	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := tr.adaptiveSamplePixel(camera, i, j, &pixelStats[j][i], sampler, targetSamples, samplingConfig)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	tr.finalizeStats(&stats)
	return stats
}

// adaptiveSamplePixel takes samples until convergence or maxSamples
func (tr *TileRenderer) adaptiveSamplePixel(camera *Camera, i, j int, ps *PixelStats, sampler core.Sampler, maxSamples int, samplingConfig SamplingConfig) int {
	initialSampleCount := ps.SampleCount
	world := tr.scene.GetWorld()

	for ps.SampleCount < maxSamples && !tr.shouldStopSampling(ps, maxSamples, samplingConfig) {
		ray := pixelRay(camera, i, j, tr.width, tr.height, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, world, samplingConfig.MaxDepth, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func (tr *TileRenderer) shouldStopSampling(ps *PixelStats, maxSamples int, samplingConfig SamplingConfig) bool {
	if samplingConfig.AdaptiveThreshold <= 0 {
		return false
	}

	// A single sample has zero variance, so at least two are needed to measure error
	minSamples := min(maxSamples, max(2, int(float64(maxSamples)*samplingConfig.AdaptiveMinSamples)))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < darkPixelVariance
	}

	// Coefficient of variation
	relativeError := math.Sqrt(variance) / mean
	return relativeError < samplingConfig.AdaptiveThreshold
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}
