package main

import (
	"context"

	cvpager "github.com/alnah/go-cvpager"
)

// DocumentRenderer renders one input. *cvpager.Renderer implements it.
type DocumentRenderer interface {
	Render(ctx context.Context, input cvpager.Input) (*cvpager.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentRenderer = (*cvpager.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() DocumentRenderer
	Release(DocumentRenderer)
	InitError() error
	Size() int
	Close() error
}

// rendererPool adapts cvpager.RendererPool to Pool.
type rendererPool struct {
	*cvpager.RendererPool
}

// Compile-time check that rendererPool implements Pool.
var _ Pool = (*rendererPool)(nil)

func newRendererPool(size int, opts []cvpager.Option) Pool {
	return &rendererPool{RendererPool: cvpager.NewRendererPool(size, opts...)}
}

// Acquire returns a nil interface, not a typed nil, when no renderer is
// available.
func (p *rendererPool) Acquire() DocumentRenderer {
	r := p.RendererPool.Acquire()
	if r == nil {
		return nil
	}
	return r
}

func (p *rendererPool) Release(r DocumentRenderer) {
	if cr, ok := r.(*cvpager.Renderer); ok {
		p.RendererPool.Release(cr)
	}
}
