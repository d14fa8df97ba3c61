package paginate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultMaxIdlePasses bounds how many consecutive passes may end without
// moving a block (pages not measurable yet, or only oversize single-block
// pages overflowing) before Run gives up.
const DefaultMaxIdlePasses = 3

// ErrSurface wraps errors returned by the Surface.
var ErrSurface = errors.New("rendering surface failed")

// Page is one page of the current partition.
type Page struct {
	Number   int
	Count    int
	Blocks   []Block
	Overflow bool // last committed measurement
	Measured bool // false until the page has been measured once
}

// Result summarizes a Run.
type Result struct {
	Generation      string
	Pages           []Page
	Stable          bool // a pass observed zero overflowing pages
	Unresolved      bool // the runaway guard froze the partition
	Passes          int  // render passes performed by this Run
	Redistributions int  // redistributions since the last SetContent
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithHeader sets the decoration rendered above each page's content.
func WithHeader(d Decoration) Option {
	return func(p *Paginator) { p.header = d }
}

// WithFooter sets the decoration rendered below each page's content.
func WithFooter(d Decoration) Option {
	return func(p *Paginator) { p.footer = d }
}

// WithLogger sets the logger for pass and redistribution diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(p *Paginator) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMaxIdlePasses sets how many consecutive passes without progress are
// tolerated. Values below 1 are ignored.
func WithMaxIdlePasses(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.maxIdlePasses = n
		}
	}
}

// state is everything that belongs to one content generation.
type state struct {
	generation      uuid.UUID
	blocks          []Block
	pages           [][]Block
	surfaces        []*pageSurface
	stable          bool
	aborted         bool
	redistributions int
}

// Paginator owns the partition of a block sequence into pages and runs the
// stabilization loop against a Surface. It is not safe for concurrent use.
type Paginator struct {
	surface       Surface
	header        Decoration
	footer        Decoration
	logger        *log.Logger
	maxIdlePasses int
	st            state
}

// New creates a Paginator with empty content.
func New(surface Surface, opts ...Option) *Paginator {
	p := &Paginator{
		surface:       surface,
		header:        Static(""),
		footer:        Static(""),
		logger:        log.New(io.Discard),
		maxIdlePasses: DefaultMaxIdlePasses,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.SetContent(nil)
	return p
}

// SetContent replaces the content and resets pagination: all blocks go back
// on page 1, stability is cleared and the redistribution counter restarts.
func (p *Paginator) SetContent(nodes []Node) {
	blocks := Flatten(nodes)
	p.st = state{
		generation: uuid.New(),
		blocks:     blocks,
		pages:      [][]Block{blocks},
	}
}

// Blocks returns the flattened content.
func (p *Paginator) Blocks() []Block { return p.st.blocks }

// Stable reports whether the last pass saw no overflowing page.
func (p *Paginator) Stable() bool { return p.st.stable }

// Pages returns the current partition.
func (p *Paginator) Pages() []Page {
	count := len(p.st.pages)
	pages := make([]Page, count)
	for i, blocks := range p.st.pages {
		pages[i] = Page{Number: i + 1, Count: count, Blocks: blocks}
		if i < len(p.st.surfaces) && sameBlocks(p.st.surfaces[i].blocks, blocks) {
			pages[i].Overflow, pages[i].Measured = p.st.surfaces[i].IsOverflow()
		}
	}
	return pages
}

// Run renders and measures until the partition stops changing. It returns
// an error only if the surface fails or ctx is done; an unresolved or
// overflowing partition is reported through the Result.
func (p *Paginator) Run(ctx context.Context) (*Result, error) {
	passes := 0
	idle := 0

	for !p.st.aborted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		passes++
		reports, err := p.pass(ctx)
		if err != nil {
			return nil, err
		}

		if p.allFit() {
			p.st.stable = true
			break
		}
		p.st.stable = false

		if len(reports) == 0 && !p.hasUnmeasured() {
			break
		}

		moved, err := p.apply(ctx, reports)
		if err != nil {
			return nil, err
		}
		if moved || p.st.aborted {
			idle = 0
			continue
		}

		// Nothing could be measured, or every overflowing page only holds
		// one block it cannot give away.
		idle++
		if idle >= p.maxIdlePasses {
			p.logger.Warn("pagination incomplete: passes made no progress",
				"generation", p.st.generation, "passes", idle)
			break
		}
	}

	return p.result(passes), nil
}

// pass renders the current partition and updates every page surface in
// page order, collecting overflow reports.
func (p *Paginator) pass(ctx context.Context) ([]OverflowReport, error) {
	if err := p.render(ctx); err != nil {
		return nil, err
	}
	p.reconcile()

	var reports []OverflowReport
	notify := func(r OverflowReport) { reports = append(reports, r) }
	for _, s := range p.st.surfaces {
		if err := s.update(ctx, p.surface, notify); err != nil {
			return nil, fmt.Errorf("%w: measuring page %d: %w", ErrSurface, s.index+1, err)
		}
	}

	p.logger.Debug("pagination pass",
		"generation", p.st.generation, "pages", len(p.st.pages), "reports", len(reports))
	return reports, nil
}

func (p *Paginator) render(ctx context.Context) error {
	if err := p.surface.Render(ctx, p.views()); err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	return nil
}

// apply processes reports in arrival order and reports whether any block
// moved. Reports for pages changed earlier in the pass are stale. When the
// runaway guard trips the frozen partition is rendered once more.
func (p *Paginator) apply(ctx context.Context, reports []OverflowReport) (bool, error) {
	moved := false
	for _, r := range reports {
		if !sameBlocks(r.Blocks, p.st.pages[r.PageIndex]) {
			continue
		}
		changed, ok := p.redistribute(r)
		if !ok {
			return moved, p.render(ctx)
		}
		moved = moved || changed
	}
	return moved, nil
}

// redistribute applies one overflow report and reports whether it moved
// anything. A split that moves nothing is not counted. ok is false when the
// runaway guard trips.
func (p *Paginator) redistribute(r OverflowReport) (changed, ok bool) {
	split := Redistribute(r.Blocks, r.Sizing, r.Sizing.Container.Height)
	if len(split.Overflowed) == 0 {
		p.logger.Debug("overflowing page keeps its only block",
			"generation", p.st.generation, "page", r.PageIndex+1)
		return false, true
	}

	if p.st.redistributions >= len(p.st.blocks) {
		p.st.aborted = true
		p.logger.Warn("pagination unresolved: redistribution limit exceeded",
			"generation", p.st.generation,
			"redistributions", p.st.redistributions,
			"blocks", len(p.st.blocks),
			"page", r.PageIndex+1)
		return false, false
	}
	p.st.redistributions++
	p.st.pages = Apply(p.st.pages, r.PageIndex, split)

	p.logger.Debug("redistributed page",
		"generation", p.st.generation,
		"page", r.PageIndex+1,
		"kept", len(split.Keep),
		"moved", len(split.Overflowed))
	return true, true
}

// reconcile keeps the surface of every page whose content is unchanged and
// starts a fresh one for every other page.
func (p *Paginator) reconcile() {
	surfaces := make([]*pageSurface, len(p.st.pages))
	for i, blocks := range p.st.pages {
		if i < len(p.st.surfaces) && sameBlocks(p.st.surfaces[i].blocks, blocks) {
			surfaces[i] = p.st.surfaces[i]
			continue
		}
		surfaces[i] = newPageSurface(i, blocks)
	}
	p.st.surfaces = surfaces
}

func (p *Paginator) views() []PageView {
	count := len(p.st.pages)
	views := make([]PageView, count)
	for i, blocks := range p.st.pages {
		info := PageInfo{Number: i + 1, Count: count}
		views[i] = PageView{
			Index:  i,
			Info:   info,
			Header: p.header.Decorate(info),
			Footer: p.footer.Decorate(info),
			Blocks: blocks,
		}
	}
	return views
}

func (p *Paginator) allFit() bool {
	for _, s := range p.st.surfaces {
		overflow, known := s.IsOverflow()
		if !known || overflow {
			return false
		}
	}
	return true
}

func (p *Paginator) hasUnmeasured() bool {
	for _, s := range p.st.surfaces {
		if _, known := s.IsOverflow(); !known {
			return true
		}
	}
	return false
}

func (p *Paginator) result(passes int) *Result {
	return &Result{
		Generation:      p.st.generation.String(),
		Pages:           p.Pages(),
		Stable:          p.st.stable,
		Unresolved:      p.st.aborted,
		Passes:          passes,
		Redistributions: p.st.redistributions,
	}
}
