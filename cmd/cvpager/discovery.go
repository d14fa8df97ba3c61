package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cvpager "github.com/alnah/go-cvpager"
	"github.com/alnah/go-cvpager/internal/decode"
	"github.com/alnah/go-cvpager/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("input must be a profile (.yaml, .yml, .toml, .json) or Markdown (.md, .markdown)")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// inputKind tells how a file is read.
type inputKind int

const (
	kindProfile inputKind = iota
	kindMarkdown
)

// FileToRender is a single file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string // PDF path; the HTML path is derived from it
	Kind       inputKind
}

// classify returns the kind of path, or false when it is not renderable.
func classify(path string) (inputKind, bool) {
	if decode.IsDocument(path) {
		return kindProfile, true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return kindMarkdown, true
	}
	return 0, false
}

// discoverFiles finds the files to render. skip lists paths to leave out of
// a directory walk, such as the config file.
func discoverFiles(inputPath, outputDir string, skip ...string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		kind, ok := classify(inputPath)
		if !ok {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToRender{{
			InputPath:  inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, ""),
			Kind:       kind,
		}}, nil
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := classify(path)
		if !ok {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
			return nil
		}
		files = append(files, FileToRender{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
			Kind:       kind,
		})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
// An outputDir ending in .pdf or .html names the output file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return fileutil.ReplaceExt(inputPath, "", ".pdf")
	}

	switch strings.ToLower(filepath.Ext(outputDir)) {
	case ".pdf":
		return outputDir
	case ".html":
		return fileutil.ReplaceExt(outputDir, "", ".pdf")
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return fileutil.ReplaceExt(rel, filepath.Join(outputDir, filepath.Dir(rel)), ".pdf")
		}
	}
	return fileutil.ReplaceExt(inputPath, outputDir, ".pdf")
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return fileutil.ReplaceExt(pdfPath, "", ".html")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > cvpager.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, cvpager.MaxPoolSize)
	}
	return nil
}
