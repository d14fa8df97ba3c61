package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	cvpager "github.com/alnah/go-cvpager"
	"github.com/alnah/go-cvpager/internal/fileutil"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadInput    = errors.New("failed to read input file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrRendererInit = errors.New("failed to initialize renderer")
)

// renderParams groups the input settings shared by every file of a run.
type renderParams struct {
	page     *cvpager.PageSettings
	header   *cvpager.Header
	footer   *cvpager.Footer
	html     bool
	htmlOnly bool
}

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath       string
	OutputPath      string
	Pages           int
	Unresolved      bool
	Passes          int
	Redistributions int
	Err             error
	Duration        time.Duration
}

// renderBatch processes files concurrently using the renderer pool.
func renderBatch(ctx context.Context, pool Pool, files []FileToRender, params *renderParams) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]RenderResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r := pool.Acquire()
			if r == nil {
				err := ErrRendererInit
				if initErr := pool.InitError(); initErr != nil {
					err = fmt.Errorf("%w: %w", ErrRendererInit, initErr)
				}
				for idx := range jobs {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one file and writes its outputs. Under --strict an
// unresolved pagination still writes the outputs and reports the error.
func renderFile(ctx context.Context, r DocumentRenderer, f FileToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	finish := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	input, err := readInput(f, params)
	if err != nil {
		return finish(err)
	}

	res, err := r.Render(ctx, input)
	if err != nil && (res == nil || !errors.Is(err, cvpager.ErrUnresolved)) {
		return finish(err)
	}
	renderErr := err

	result.Pages = res.Pages
	result.Unresolved = res.Unresolved
	result.Passes = res.Passes
	result.Redistributions = res.Redistributions

	if params.html || params.htmlOnly {
		htmlPath := htmlOutputPath(f.OutputPath)
		if err := fileutil.WriteFile(htmlPath, res.HTML); err != nil {
			return finish(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			return finish(renderErr)
		}
	}

	if err := fileutil.WriteFile(f.OutputPath, res.PDF); err != nil {
		return finish(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}
	return finish(renderErr)
}

// readInput loads a file into a render input.
func readInput(f FileToRender, params *renderParams) (cvpager.Input, error) {
	input := cvpager.Input{
		Page:     params.page,
		Header:   params.header,
		Footer:   params.footer,
		HTMLOnly: params.htmlOnly,
	}
	if abs, err := filepath.Abs(f.InputPath); err == nil {
		input.SourceDir = filepath.Dir(abs)
	}

	switch f.Kind {
	case kindProfile:
		p, err := cvpager.LoadProfile(f.InputPath)
		if err != nil {
			return input, err
		}
		input.Profile = p
	default:
		content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
		if err != nil {
			return input, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		input.Markdown = string(content)
		input.Title = fileTitle(f.InputPath)
	}
	return input, nil
}

// fileTitle is the file name without its extension.
func fileTitle(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}
