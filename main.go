package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	samples   int
	depth     int
	passes    int
	workers   int
	tileSize  int
	output    string
	format    string
	scale     float64
	seed      int64
	reference string
	scenesDir string
}

func main() {
	var opts options
	flag.StringVar(&opts.sceneType, "scene", "default", "Scene: built-in name or path to a .json scene file")
	flag.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&opts.samples, "samples", 0, "Maximum samples per pixel (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", 0, "Maximum ray bounce depth (0 = scene default)")
	flag.IntVar(&opts.passes, "passes", 5, "Number of progressive passes")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	flag.IntVar(&opts.tileSize, "tile", 64, "Tile size in pixels")
	flag.StringVar(&opts.output, "output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.StringVar(&opts.format, "format", "png", "Output format when -output has no extension: png, jpeg, bmp, tiff")
	flag.Float64Var(&opts.scale, "scale", 1.0, "Rescale the final image by this factor")
	flag.Int64Var(&opts.seed, "seed", 42, "Base random seed")
	flag.StringVar(&opts.reference, "reference", "", "Report the mean absolute error against this image")
	flag.StringVar(&opts.scenesDir, "scenes", "scenes", "Directory searched by -list for .json scene files")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Weekend Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format> unless -output is set")
		return
	}

	if *list {
		if err := listScenes(opts.scenesDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listScenes prints built-in and file scenes
func listScenes(dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Printf("  %-32s %s\n", info.ID, info.Description)
	}
	return nil
}

// run renders the selected scene progressively and writes the final image
func run(ctx context.Context, opts options, logger core.Logger) error {
	selectedScene, err := createScene(opts.sceneType, opts.width)
	if err != nil {
		return err
	}

	samplingConfig := renderer.MergeSamplingConfig(selectedScene.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
	})
	selectedScene.SamplingConfig = samplingConfig

	// Resolve the output before rendering so a bad path or format fails fast
	filename, err := createOutputPath(opts.sceneType, opts.output, opts.format, time.Now())
	if err != nil {
		return err
	}

	width, height := samplingConfig.Width, samplingConfig.Height
	logger.Printf("Rendering %s (%d objects) at %dx%d\n", selectedScene.Name, selectedScene.GetPrimitiveCount(), width, height)

	progressiveConfig := renderer.ProgressiveConfig{
		TileSize:           opts.tileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: samplingConfig.SamplesPerPixel,
		MaxPasses:          opts.passes,
		NumWorkers:         opts.workers,
		Seed:               opts.seed,
	}

	raytracer, err := renderer.NewProgressiveRaytracer(selectedScene, width, height, progressiveConfig, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	img, stats, err := renderFinal(ctx, raytracer)
	if err != nil {
		return err
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	var final image.Image = img
	if opts.scale > 0 && opts.scale != 1.0 {
		final = loaders.ScaleImage(img, opts.scale)
	}

	if err := loaders.SaveImage(filename, final); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.reference != "" {
		return compareWithReference(filename, opts.reference, logger)
	}
	return nil
}

// renderFinal drains the progressive render and returns the last pass
func renderFinal(ctx context.Context, raytracer *renderer.ProgressiveRaytracer) (*image.RGBA, renderer.RenderStats, error) {
	passChan, _, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{})

	var last renderer.PassResult
	for pass := range passChan {
		last = pass
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last.Image == nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("render produced no passes")
	}
	return last.Image, last.Stats, nil
}

// createScene resolves a scene name, applying a width override when set
func createScene(sceneType string, width int) (*scene.Scene, error) {
	if width > 0 {
		return scene.Create(sceneType, renderer.CameraConfig{Width: width})
	}
	return scene.Create(sceneType)
}

// createOutputPath picks the output file, creating its directory
func createOutputPath(sceneType, output, format string, now time.Time) (string, error) {
	filename := output
	if filename == "" {
		parsed, err := loaders.ParseFormat(format)
		if err != nil {
			return "", err
		}
		timestamp := now.Format("20060102_150405")
		filename = filepath.Join(createOutputDir(sceneType), fmt.Sprintf("render_%s.%s", timestamp, parsed))
	} else if filepath.Ext(filename) == "" {
		parsed, err := loaders.ParseFormat(format)
		if err != nil {
			return "", err
		}
		filename += "." + parsed
	} else if _, err := loaders.FormatFromPath(filename); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filename, nil
}

// createOutputDir returns output/<scene>, using the file name for scene files
func createOutputDir(sceneType string) string {
	name := sceneType
	if filepath.Ext(sceneType) != "" {
		base := filepath.Base(sceneType)
		name = base[:len(base)-len(filepath.Ext(base))]
	}
	return filepath.Join("output", name)
}

// compareWithReference logs how far the saved render is from a reference image
func compareWithReference(filename, reference string, logger core.Logger) error {
	rendered, err := loaders.LoadImage(filename)
	if err != nil {
		return err
	}
	expected, err := loaders.LoadImage(reference)
	if err != nil {
		return err
	}
	mae, err := loaders.MeanAbsoluteError(rendered, expected)
	if err != nil {
		return fmt.Errorf("compare with %s: %w", reference, err)
	}
	logger.Printf("Mean absolute error vs %s: %.5f\n", reference, mae)
	return nil
}
