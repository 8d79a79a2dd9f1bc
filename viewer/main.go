package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
	"github.com/df07/go-weekend-raytracer/viewer/preview"
)

const (
	maxWindowWidth  = 1600
	maxWindowHeight = 900
)

// logLogger routes renderer output to the standard logger
type logLogger struct{}

func (logLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Viewer shows a progressive render as it refines
type Viewer struct {
	frame   *preview.Frame
	canvas  *ebiten.Image
	status  string
	version int
	width   int
	height  int
	cancel  context.CancelFunc
	save    string
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		v.cancel()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.saveImage()
	}

	img, status, version, changed := v.frame.Snapshot(v.version)
	if v.status == "" || changed {
		v.status = status
	}
	if !changed {
		return nil
	}
	v.version = version

	if v.canvas == nil {
		v.canvas = ebiten.NewImage(v.width, v.height)
	}
	v.canvas.WritePixels(img.Pix)
	return nil
}

func (v *Viewer) saveImage() {
	img, _, _, _ := v.frame.Snapshot(-1)
	if err := loaders.SaveImage(v.save, img); err != nil {
		v.status = fmt.Sprintf("Save failed: %v", err)
		return
	}
	v.status = "Saved " + v.save
	log.Printf("Saved %s", v.save)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.canvas != nil {
		screen.DrawImage(v.canvas, nil)
	}
	ebitenutil.DebugPrintAt(screen, v.status, 6, 4)
	if done, _ := v.frame.Done(); done {
		ebitenutil.DebugPrintAt(screen, "S: save  Q: quit", 6, 20)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func main() {
	sceneType := flag.String("scene", "default", "Scene: built-in name or path to a .json scene file")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := flag.Int("samples", 0, "Maximum samples per pixel (0 = scene default)")
	passes := flag.Int("passes", 7, "Number of progressive passes")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	tileSize := flag.Int("tile", 32, "Tile size in pixels")
	scale := flag.Float64("scale", 2, "Window scale factor")
	save := flag.String("save", "viewer.png", "File written when S is pressed")
	flag.Parse()

	var overrides []renderer.CameraConfig
	if *width > 0 {
		overrides = append(overrides, renderer.CameraConfig{Width: *width})
	}
	selectedScene, err := scene.Create(*sceneType, overrides...)
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	sampling := renderer.MergeSamplingConfig(selectedScene.SamplingConfig, renderer.SamplingConfig{SamplesPerPixel: *samples})
	selectedScene.SamplingConfig = sampling

	raytracer, err := renderer.NewProgressiveRaytracer(selectedScene, sampling.Width, sampling.Height, renderer.ProgressiveConfig{
		TileSize:           *tileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sampling.SamplesPerPixel,
		MaxPasses:          *passes,
		NumWorkers:         *workers,
		Seed:               42,
	}, logLogger{})
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frame := preview.NewFrame(sampling.Width, sampling.Height, *tileSize)
	go frame.Follow(raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true}))

	windowWidth, windowHeight := preview.WindowSize(sampling.Width, sampling.Height, maxWindowWidth, maxWindowHeight, *scale)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Weekend Raytracer - %s", selectedScene.Name))

	viewer := &Viewer{
		frame:   frame,
		version: -1,
		width:   sampling.Width,
		height:  sampling.Height,
		cancel:  cancel,
		save:    *save,
	}
	if err := ebiten.RunGame(viewer); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
