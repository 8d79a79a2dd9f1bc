package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate is sent when a pass completes
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ElapsedMs      int64   `json:"elapsedMs"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG of the full image
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsComplete     bool    `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// All writes go through one goroutine; done closes once it has drained the channel
	sseEventChan := make(chan SSEEvent, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-done
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// The logger may outlive this handler on cancellation, so consoleChan is never closed
	consoleChan, webLogger := s.setupConsoleLogging()
	stopConsole := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, stopConsole, consoleChan, sseEventChan)
	}()
	defer func() {
		close(stopConsole)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	renderOptions := renderer.RenderOptions{TileUpdates: true}
	passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderOptions)

	s.handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline.Scene, req, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes events until the channel closes or the client goes away
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range sseEventChan {
		if ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards logger output to the SSE stream until stop closes,
// then flushes whatever is already buffered
func (s *Server) streamConsoleMessages(ctx context.Context, stop <-chan struct{}, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			s.forwardConsoleMessage(ctx, consoleMsg, sseEventChan)
		case <-stop:
			for {
				select {
				case consoleMsg := <-consoleChan:
					s.forwardConsoleMessage(ctx, consoleMsg, sseEventChan)
				default:
					return
				}
			}
		}
	}
}

func (s *Server) forwardConsoleMessage(ctx context.Context, consoleMsg ConsoleMessage, sseEventChan chan<- SSEEvent) {
	data, err := json.Marshal(consoleMsg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
	case <-ctx.Done():
	default:
		// Channel full, skip message to avoid blocking
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene, req.Width)
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig = renderer.MergeSamplingConfig(sceneObj.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel:    req.MaxSamples,
		MaxDepth:           req.MaxDepth,
		AdaptiveMinSamples: req.AdaptiveMinSamples,
	})
	// Zero is meaningful here: it disables adaptive sampling
	sceneObj.SamplingConfig.AdaptiveThreshold = req.AdaptiveThreshold
	req.Height = sceneObj.SamplingConfig.Height

	config := renderer.ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
		Seed:               req.Seed,
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, req.Width, req.Height, config, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
	}, nil
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	scene *scene.Scene, req *RenderRequest, startTime time.Time) {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, req, scene, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, passResult renderer.PassResult, req *RenderRequest, scene *scene.Scene, startTime time.Time) {
	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", passResult.PassNumber, err)
		return
	}

	update := PassUpdate{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    req.MaxPasses,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		ImageData:      imageData,
		TotalPixels:    passResult.Stats.TotalPixels,
		TotalSamples:   passResult.Stats.TotalSamples,
		AverageSamples: passResult.Stats.AverageSamples,
		MaxSamples:     passResult.Stats.MaxSamples,
		MinSamples:     passResult.Stats.MinSamples,
		MaxSamplesUsed: passResult.Stats.MaxSamplesUsed,
		PrimitiveCount: scene.GetPrimitiveCount(),
		IsComplete:     passResult.IsLast,
	}

	s.sendJSONEvent(ctx, sseEventChan, "passComplete", update)
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	s.sendJSONEvent(ctx, sseEventChan, "tile", update)
}

func (s *Server) sendJSONEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, loaders.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
