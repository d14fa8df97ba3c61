package paginate

import (
	"context"
	"errors"
)

// stackSurface lays blocks out top to bottom inside a fixed-height content
// area, the way a browser would stack block-level elements without margins.
type stackSurface struct {
	height float64 // content area height
	width  float64

	// blockHeight returns the rendered height of a block for a given render
	// count (1-based) and page index.
	blockHeight func(id, render, page int) float64

	// attachAfter makes every Layout unattached until that many renders.
	attachAfter int
	// missing hides these block IDs from Layout.
	missing map[int]bool

	renderErr error
	layoutErr error

	renders int
	views   []PageView
}

func newStackSurface(height float64, heights ...float64) *stackSurface {
	return &stackSurface{
		height: height,
		width:  480,
		blockHeight: func(id, _, _ int) float64 {
			return heights[id]
		},
	}
}

func (s *stackSurface) Render(_ context.Context, pages []PageView) error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.renders++
	s.views = pages
	return nil
}

func (s *stackSurface) Layout(_ context.Context, pageIndex int) (Layout, error) {
	if s.layoutErr != nil {
		return Layout{}, s.layoutErr
	}
	if s.renders <= s.attachAfter || pageIndex >= len(s.views) {
		return Layout{}, nil
	}

	// Pages are laid out one after another in the surface's coordinates.
	container := Rect{
		Top:    float64(pageIndex)*(s.height+200) + 72,
		Left:   96,
		Width:  s.width,
		Height: s.height,
	}
	layout := Layout{Attached: true, Container: container, Blocks: map[int]Rect{}}

	top := container.Top
	for _, b := range s.views[pageIndex].Blocks {
		h := s.blockHeight(b.ID, s.renders, pageIndex)
		if !s.missing[b.ID] {
			layout.Blocks[b.ID] = Rect{Top: top, Left: container.Left, Width: s.width, Height: h}
		}
		top += h
	}
	return layout, nil
}

// blockIDs returns the IDs of a page's blocks.
func blockIDs(blocks []Block) []int {
	ids := make([]int, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

// leaves builds n leaf nodes with distinct markup.
func leaves(n int) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Leaf("<p>block</p>")
	}
	return nodes
}

var errBoom = errors.New("boom")
