package paginate

import "context"

// Surface is the host rendering surface.
//
// Render replaces whatever the surface currently shows with the given pages.
// Layout returns the geometry of the page at index after the last Render.
// A Layout with Attached=false means the page is not measurable yet; the
// engine retries on a later pass.
type Surface interface {
	Render(ctx context.Context, pages []PageView) error
	Layout(ctx context.Context, pageIndex int) (Layout, error)
}

// PageInfo identifies a page for header and footer rendering.
type PageInfo struct {
	Number int // 1-based
	Count  int
}

// PageView is one page of a render snapshot. Header and Footer are already
// rendered for this page.
type PageView struct {
	Index  int
	Info   PageInfo
	Header string
	Footer string
	Blocks []Block
}

// Decoration renders a header or footer for a page.
type Decoration interface {
	Decorate(info PageInfo) string
}

// Static is a Decoration that renders the same markup on every page.
type Static string

// Decorate returns s unchanged.
func (s Static) Decorate(PageInfo) string { return string(s) }

// DecorationFunc adapts a function of the page number and count to a Decoration.
type DecorationFunc func(info PageInfo) string

// Decorate calls f(info).
func (f DecorationFunc) Decorate(info PageInfo) string { return f(info) }

// OverflowReport is sent by a page surface when its content starts to
// overflow. Blocks and Sizing describe the content that was measured.
type OverflowReport struct {
	PageIndex int
	Blocks    []Block
	Sizing    Sizing
}

type overflowState int

const (
	overflowUnknown overflowState = iota
	overflowFits
	overflowOverflows
)

// pageSurface tracks the committed overflow state of one page. It lives as
// long as the page's block sequence is unchanged.
type pageSurface struct {
	index  int
	blocks []Block
	state  overflowState
}

func newPageSurface(index int, blocks []Block) *pageSurface {
	return &pageSurface{index: index, blocks: blocks}
}

// IsOverflow returns the committed overflow state. known is false until the
// page has been measured once.
func (p *pageSurface) IsOverflow() (overflow, known bool) {
	switch p.state {
	case overflowFits:
		return false, true
	case overflowOverflows:
		return true, true
	default:
		return false, false
	}
}

// update measures the page and calls notify when it transitions into
// overflow. Unmeasurable pages leave the committed state untouched so the
// transition is seen again once they can be measured.
func (p *pageSurface) update(ctx context.Context, s Surface, notify func(OverflowReport)) error {
	layout, err := s.Layout(ctx, p.index)
	if err != nil {
		return err
	}

	sizing, ok := Probe(layout, p.blocks)
	if !ok {
		return nil
	}

	next := overflowFits
	if sizing.Overflows() {
		next = overflowOverflows
	}
	if next == p.state {
		return nil
	}

	p.state = next
	if next == overflowOverflows {
		notify(OverflowReport{PageIndex: p.index, Blocks: p.blocks, Sizing: sizing})
	}
	return nil
}
