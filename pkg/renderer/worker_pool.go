package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // Index into the tile list
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool renders tiles in parallel with a bounded number of goroutines
type WorkerPool struct {
	tileRenderer *TileRenderer
	numWorkers   int
}

// NewWorkerPool creates a worker pool with the specified number of workers (0 = CPU count)
func NewWorkerPool(tileRenderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		tileRenderer: tileRenderer,
		numWorkers:   numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderTiles renders every task and calls onResult for each finished tile.
// onResult runs on the calling goroutine, one result at a time.
// Tiles not yet started when ctx is cancelled are skipped and ctx's error is returned.
func (wp *WorkerPool) RenderTiles(ctx context.Context, tasks []TileTask, onResult func(TileResult)) error {
	results := make(chan TileResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	var runErr error
	go func() {
		defer close(results)
		for _, task := range tasks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				// Each tile owns its sampler and a disjoint region of PixelStats
				stats := wp.tileRenderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
				results <- TileResult{TaskID: task.TaskID, Stats: stats}
				return nil
			})
		}
		runErr = g.Wait()
	}()

	for result := range results {
		if onResult != nil {
			onResult(result)
		}
	}

	if runErr != nil {
		return runErr
	}
	return ctx.Err()
}
