package paginate

// Rect is a block's post-render geometry in host length units.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Size is the extent of a page's content area.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sizing is the probe's view of one rendered page: the content area and
// each block's rect relative to it, in arrival order.
type Sizing struct {
	Container Size
	Blocks    []Rect
}

// NaturalExtent returns the height the content would occupy unclipped,
// measured as the lowest block bottom.
func (s Sizing) NaturalExtent() float64 {
	var extent float64
	for _, r := range s.Blocks {
		if b := r.Bottom(); b > extent {
			extent = b
		}
	}
	return extent
}

// Overflows reports whether the natural extent strictly exceeds the
// visible content height.
func (s Sizing) Overflows() bool {
	return s.NaturalExtent() > s.Container.Height
}
