package cvpager

// Notes:
// - Tests Renderer.Render against a fake surface that stacks blocks with
//   known heights, so pagination runs without a browser
// - Internal test options (withSurfaces, withClock) inject the fakes
// - Browser rendering is covered by integration_test.go

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-cvpager/internal/paginate"
	"github.com/alnah/go-cvpager/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Fake Surface
// ---------------------------------------------------------------------------

// fakeProvider opens fakeSessions whose page bodies are bodyHeight tall and
// whose blocks are heightOf(block, page) tall, stacked from the top.
type fakeProvider struct {
	bodyHeight  float64
	heightOf    func(b paginate.Block, page []paginate.Block) float64
	openErr     error
	pdfErr      error
	panicOnOpen bool

	opened int
	closed bool
	last   *fakeSession
	shell  pipeline.Document
}

func (f *fakeProvider) Open(_ context.Context, shell pipeline.Document, _ *PageSettings) (session, error) {
	if f.panicOnOpen {
		panic("surface exploded")
	}
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	f.shell = shell
	f.last = &fakeSession{provider: f}
	return f.last, nil
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

type fakeSession struct {
	provider *fakeProvider
	views    []paginate.PageView
	html     string
	renders  int
	closed   bool
}

func (s *fakeSession) Render(_ context.Context, pages []paginate.PageView) error {
	s.renders++
	s.views = pages
	doc := s.provider.shell
	doc.Pages = pages
	s.html = pipeline.RenderDocument(doc)
	return nil
}

func (s *fakeSession) Layout(_ context.Context, pageIndex int) (paginate.Layout, error) {
	if pageIndex >= len(s.views) {
		return paginate.Layout{}, nil
	}
	layout := paginate.Layout{
		Attached:  true,
		Container: paginate.Rect{Top: 100, Left: 50, Width: 600, Height: s.provider.bodyHeight},
		Blocks:    map[int]paginate.Rect{},
	}
	top := 100.0
	for _, b := range s.views[pageIndex].Blocks {
		h := s.provider.heightOf(b, s.views[pageIndex].Blocks)
		layout.Blocks[b.ID] = paginate.Rect{Top: top, Left: 50, Width: 600, Height: h}
		top += h
	}
	return layout, nil
}

func (s *fakeSession) HTML() string { return s.html }

func (s *fakeSession) PDF(context.Context) ([]byte, error) {
	if s.provider.pdfErr != nil {
		return nil, s.provider.pdfErr
	}
	return []byte("%PDF-1.7 fake"), nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func withSurfaces(p surfaceProvider) Option {
	return func(r *Renderer) { r.surfaces = p }
}

func withClock(t time.Time) Option {
	return func(r *Renderer) { r.now = func() time.Time { return t } }
}

func fixedHeight(h float64) func(paginate.Block, []paginate.Block) float64 {
	return func(paginate.Block, []paginate.Block) float64 { return h }
}

func newTestRenderer(t *testing.T, fake *fakeProvider, opts ...Option) *Renderer {
	t.Helper()

	r, err := NewRenderer(append([]Option{withSurfaces(fake)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func testProfile() *Profile {
	return &Profile{
		Name:  Name{First: "Ada", Last: "Lovelace"},
		Email: "ada@example.com",
		Experiences: []Experience{
			{Title: "Analyst", StartDate: "1842-01", DutyRemarks: "- one\n- two\n- three"},
			{Title: "Translator", StartDate: "1840-01", EndDate: "1841-12", DutyRemarks: "- four\n- five"},
		},
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_Render - Pagination through the renderer
// ---------------------------------------------------------------------------

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      Input
		bodyHeight float64
		blockH     float64
		wantPages  int
		wantPDF    bool
	}{
		{
			name:       "profile fits on one page",
			input:      Input{Profile: testProfile()},
			bodyHeight: 1000,
			blockH:     20,
			wantPages:  1,
			wantPDF:    true,
		},
		{
			// 9 blocks of 30 in 100: three per page.
			name:       "profile spans pages",
			input:      Input{Profile: testProfile()},
			bodyHeight: 100,
			blockH:     30,
			wantPages:  3,
			wantPDF:    true,
		},
		{
			name:       "markdown document",
			input:      Input{Markdown: "# Title\n\npara one\n\npara two\n\npara three", HTMLOnly: true},
			bodyHeight: 100,
			blockH:     40,
			wantPages:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeProvider{bodyHeight: tt.bodyHeight, heightOf: fixedHeight(tt.blockH)}
			r := newTestRenderer(t, fake)

			res, err := r.Render(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if res.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", res.Pages, tt.wantPages)
			}
			if !res.Stable || res.Unresolved {
				t.Errorf("Stable = %v, Unresolved = %v, want stable", res.Stable, res.Unresolved)
			}
			if (res.PDF != nil) != tt.wantPDF {
				t.Errorf("PDF present = %v, want %v", res.PDF != nil, tt.wantPDF)
			}
			if got := strings.Count(string(res.HTML), `class="page"`); got != tt.wantPages {
				t.Errorf("HTML has %d pages, want %d", got, tt.wantPages)
			}
			if res.Generation == "" {
				t.Error("Generation should be set")
			}
			if !fake.last.closed {
				t.Error("session should be closed after Render")
			}
		})
	}
}

func TestRenderer_Render_Document(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{bodyHeight: 1000, heightOf: fixedHeight(10)}
	r := newTestRenderer(t, fake, WithStyle("body { color: red; }"))

	res, err := r.Render(context.Background(), Input{
		Profile: testProfile(),
		Lang:    "fr",
		CSS:     ".extra { color: blue; }",
		Page:    &PageSettings{Size: "a4", Orientation: "landscape", Margin: 1},
	})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"<title>Ada Lovelace</title>",
		`<html lang="fr">`,
		"body { color: red; }",
		".extra { color: blue; }",
		"size: 11.69in 8.27in;",
		"padding: 1.00in;",
		"Jan 1842 – Present",
		"Jan 1840 – Dec 1841",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Index(html, ".extra") > strings.Index(html, "/* Page geometry */") {
		t.Error("page geometry should come after user CSS")
	}
}

func TestRenderer_Render_Decorations(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{bodyHeight: 100, heightOf: fixedHeight(30)}
	r := newTestRenderer(t, fake, withClock(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))

	res, err := r.Render(context.Background(), Input{
		Profile: testProfile(),
		Header:  &Header{Text: "Curriculum Vitae"},
		Footer: &Footer{
			ShowPageNumber: true,
			Date:           "auto",
			Link:           &Link{Label: "cvpager@1.0.0", URL: "https://example.com/tree/v1.0.0"},
		},
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	html := string(res.HTML)
	for _, want := range []string{
		`<span class="pagenumber__index">3</span>`,
		`<span class="pagenumber__count">3</span>`,
		"2024-03-15",
		"Curriculum Vitae",
		"cvpager@1.0.0",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, `<span class="pagenumber__count">1</span>`) {
		t.Error("footers should be rendered with the final page count")
	}
}

func TestRenderer_Render_Unresolved(t *testing.T) {
	t.Parallel()

	// The last block of a page holding several blocks is always taller than
	// the page, so blocks keep moving on one at a time.
	shifting := func(b paginate.Block, page []paginate.Block) float64 {
		if len(page) > 1 && page[len(page)-1].ID == b.ID {
			return 150
		}
		return 5
	}

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()

		r := newTestRenderer(t, &fakeProvider{bodyHeight: 100, heightOf: shifting})
		res, err := r.Render(context.Background(), Input{Profile: testProfile(), HTMLOnly: true})
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		if !res.Unresolved {
			t.Errorf("Unresolved = false, want true (stable=%v, redistributions=%d)", res.Stable, res.Redistributions)
		}
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		r := newTestRenderer(t, &fakeProvider{bodyHeight: 100, heightOf: shifting}, WithStrict(true))
		res, err := r.Render(context.Background(), Input{Profile: testProfile(), HTMLOnly: true})
		if !errors.Is(err, ErrUnresolved) {
			t.Fatalf("Render() error = %v, want ErrUnresolved", err)
		}
		if res == nil || len(res.HTML) == 0 {
			t.Error("strict mode should still return the document")
		}
	})
}

func TestRenderer_Render_OversizeBlocks(t *testing.T) {
	t.Parallel()

	// Every block is taller than a page: each ends up alone on its page and
	// the result is unsettled but not unresolved, even in strict mode.
	r := newTestRenderer(t, &fakeProvider{bodyHeight: 100, heightOf: fixedHeight(150)}, WithStrict(true))
	res, err := r.Render(context.Background(), Input{Profile: testProfile(), HTMLOnly: true})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if res.Unresolved || res.Stable {
		t.Errorf("Stable = %v, Unresolved = %v, want unsettled and resolved", res.Stable, res.Unresolved)
	}
	if res.Pages != 9 {
		t.Errorf("Pages = %d, want one page per block (9)", res.Pages)
	}
}

func TestRenderer_Render_Errors(t *testing.T) {
	t.Parallel()

	openErr := errors.New("no browser")
	pdfErr := errors.New("printer on fire")

	tests := []struct {
		name    string
		fake    *fakeProvider
		input   Input
		wantErr error
	}{
		{"empty input", &fakeProvider{}, Input{}, ErrEmptyInput},
		{"blank markdown", &fakeProvider{}, Input{Markdown: "  \n"}, ErrEmptyInput},
		{"both inputs", &fakeProvider{}, Input{Profile: testProfile(), Markdown: "x"}, ErrAmbiguousInput},
		{"invalid page", &fakeProvider{}, Input{Markdown: "x", Page: &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 1}}, ErrInvalidPageSize},
		{"invalid footer", &fakeProvider{}, Input{Markdown: "x", Footer: &Footer{Link: &Link{}}}, ErrInvalidFooterLink},
		{"invalid footer date", &fakeProvider{}, Input{Markdown: "x", Footer: &Footer{Date: "auto:"}}, ErrInvalidDateFormat},
		{"open fails", &fakeProvider{openErr: openErr}, Input{Markdown: "x"}, openErr},
		{"pdf fails", &fakeProvider{bodyHeight: 100, heightOf: fixedHeight(10), pdfErr: pdfErr}, Input{Markdown: "x"}, pdfErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRenderer(t, tt.fake)
			_, err := r.Render(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderer_Render_InvalidProfile(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeProvider{})
	_, err := r.Render(context.Background(), Input{Profile: &Profile{}})
	if err == nil {
		t.Fatal("Render() should reject a profile without a name")
	}
}

func TestRenderer_Render_RecoversPanic(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, &fakeProvider{panicOnOpen: true})
	_, err := r.Render(context.Background(), Input{Markdown: "x"})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Render() error = %v, want internal error", err)
	}
}

func TestRenderer_Render_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRenderer(t, &fakeProvider{bodyHeight: 100, heightOf: fixedHeight(10)})
	_, err := r.Render(ctx, Input{Markdown: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRenderer_Close(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{bodyHeight: 100, heightOf: fixedHeight(10)}
	r, err := NewRenderer(withSurfaces(fake))
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !fake.closed {
		t.Error("Close() should close the surface provider")
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := r.Render(context.Background(), Input{Markdown: "x"}); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Render() after Close error = %v, want ErrRendererClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewRenderer - Option resolution
// ---------------------------------------------------------------------------

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssPath := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(cssPath, []byte(".custom {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		opts      []Option
		wantErr   error
		wantStyle string
	}{
		{name: "defaults", wantStyle: ".profile__name"},
		{name: "style name", opts: []Option{WithStyle("default")}, wantStyle: ".profile__name"},
		{name: "style file", opts: []Option{WithStyle(cssPath)}, wantStyle: ".custom {}"},
		{name: "style content", opts: []Option{WithStyle("p { margin: 0 }")}, wantStyle: "p { margin: 0 }"},
		{name: "unknown style", opts: []Option{WithStyle("nope")}, wantErr: ErrStyleNotFound},
		{name: "unknown template set", opts: []Option{WithTemplateSet("nope")}, wantErr: ErrTemplateSetNotFound},
		{name: "invalid asset path", opts: []Option{WithAssetPath(filepath.Join(dir, "missing"))}, wantErr: ErrInvalidAssetPath},
		{name: "invalid date format", opts: []Option{WithDates("[unclosed", "")}, wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewRenderer(append([]Option{withSurfaces(&fakeProvider{})}, tt.opts...)...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewRenderer() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderer() unexpected error: %v", err)
			}
			if !strings.Contains(r.cfg.resolvedStyle, tt.wantStyle) {
				t.Errorf("resolved style missing %q", tt.wantStyle)
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

func TestWithAssetLoader(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{style: ".stub {}", set: NewTemplateSet("stub", "<b>H</b>", "<i>{{.Number}}</i>")}
	fake := &fakeProvider{bodyHeight: 1000, heightOf: fixedHeight(10)}
	r := newTestRenderer(t, fake, WithAssetLoader(loader), WithStyle("stub"), WithTemplateSet("stub"))

	res, err := r.Render(context.Background(), Input{Markdown: "x", Header: &Header{}, Footer: &Footer{}, HTMLOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".stub {}", "<b>H</b>", "<i>1</i>"} {
		if !strings.Contains(string(res.HTML), want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

type stubLoader struct {
	style string
	set   *TemplateSet
}

func (s *stubLoader) LoadStyle(string) (string, error)             { return s.style, nil }
func (s *stubLoader) LoadTemplateSet(string) (*TemplateSet, error) { return s.set, nil }
