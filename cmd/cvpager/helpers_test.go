package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	cvpager "github.com/alnah/go-cvpager"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeRenderer records inputs and returns a canned result.
type fakeRenderer struct {
	mu     sync.Mutex
	inputs []cvpager.Input
	result *cvpager.Result
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, input cvpager.Input) (*cvpager.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)

	res := f.result
	if res == nil {
		res = &cvpager.Result{HTML: []byte("<html></html>"), PDF: []byte("%PDF-1.7"), Pages: 1, Stable: true, Passes: 1}
	}
	out := *res
	if input.HTMLOnly {
		out.PDF = nil
	}
	return &out, f.err
}

func (f *fakeRenderer) calls() []cvpager.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cvpager.Input(nil), f.inputs...)
}

// fakePool hands out one shared fakeRenderer.
type fakePool struct {
	renderer  *fakeRenderer
	size      int
	initErr   error
	opts      []cvpager.Option
	requested int // size passed to Environment.NewPool
	closed    bool
}

func (p *fakePool) Acquire() DocumentRenderer {
	if p.initErr != nil {
		return nil
	}
	return p.renderer
}
func (p *fakePool) Release(DocumentRenderer) {}
func (p *fakePool) InitError() error         { return p.initErr }
func (p *fakePool) Size() int                { return p.size }
func (p *fakePool) Close() error             { p.closed = true; return nil }

// Compile-time check that fakePool implements Pool.
var _ Pool = (*fakePool)(nil)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout, stderr *bytes.Buffer
	pool           *fakePool
	vars           map[string]string // CVPAGER_* environment
}

func newTestEnv(renderer *fakeRenderer) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &fakePool{renderer: renderer, size: 2},
		vars:   map[string]string{},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(key string) string { return te.vars[key] },
		Environ: func() []string {
			environ := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				environ = append(environ, k+"="+v)
			}
			return environ
		},
		NewPool: func(size int, opts []cvpager.Option) Pool {
			te.pool.opts = opts
			te.pool.requested = size
			return te.pool
		},
	}
	return te
}

const testProfileYAML = `name:
  first: Ada
  last: Lovelace
email: ada@example.com
experiences:
  - title: Analyst
    startDate: "1842-01"
    dutyRemarks: |
      - Notes on the engine
`

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
