package paginate

// Layout is what a Surface reports for one page after a render pass, in the
// surface's coordinate space. Blocks is keyed by Block.ID.
type Layout struct {
	Attached  bool
	Container Rect
	Blocks    map[int]Rect
}

// Probe converts a page layout into container-relative sizing for blocks,
// in the order given. It returns false if the container is not attached or
// any block has no rect yet.
func Probe(layout Layout, blocks []Block) (Sizing, bool) {
	if !layout.Attached {
		return Sizing{}, false
	}

	sizing := Sizing{
		Container: Size{Width: layout.Container.Width, Height: layout.Container.Height},
		Blocks:    make([]Rect, len(blocks)),
	}
	for i, b := range blocks {
		r, ok := layout.Blocks[b.ID]
		if !ok {
			return Sizing{}, false
		}
		sizing.Blocks[i] = Rect{
			Top:    r.Top - layout.Container.Top,
			Left:   r.Left - layout.Container.Left,
			Width:  r.Width,
			Height: r.Height,
		}
	}
	return sizing, true
}
