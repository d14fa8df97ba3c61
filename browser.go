package cvpager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cvpager/internal/fileutil"
	"github.com/alnah/go-cvpager/internal/hints"
	"github.com/alnah/go-cvpager/internal/paginate"
	"github.com/alnah/go-cvpager/internal/pipeline"
	"github.com/alnah/go-cvpager/internal/process"
)

// session is one document open in the rendering surface. Render replaces
// the document; HTML returns what was rendered last.
type session interface {
	paginate.Surface
	HTML() string
	PDF(ctx context.Context) ([]byte, error)
	Close() error
}

// surfaceProvider opens sessions. Tests replace the browser with a fake.
type surfaceProvider interface {
	Open(ctx context.Context, shell pipeline.Document, page *PageSettings) (session, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ surfaceProvider = (*rodBrowser)(nil)
	_ session         = (*rodSession)(nil)
)

// rodBrowser is a headless Chrome driven by go-rod. Rod downloads Chromium
// on first run if none is found. The browser starts on the first Open.
type rodBrowser struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodBrowser() *rodBrowser {
	return &rodBrowser{}
}

// noSandbox reports whether Chrome must run without its sandbox, as in
// containers and CI.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" || hints.InCI()
}

func (b *rodBrowser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.launcher = l
	b.browser = browser
	return nil
}

// Open creates a browser tab for one document. The tab emulates print media
// so pages are measured with the rules they are printed with.
func (b *rodBrowser) Open(ctx context.Context, shell pipeline.Document, settings *PageSettings) (session, error) {
	b.mu.Lock()
	err := b.ensureBrowser()
	browser := b.browser
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: emulating print media: %v", ErrPageCreate, err)
	}

	return &rodSession{page: page, shell: shell, settings: settings}, nil
}

// Close stops the browser and kills its process group.
func (b *rodBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	pid := b.launcher.PID()
	b.launcher.Kill()
	process.KillProcessGroup(pid)
	b.browser = nil
	b.launcher = nil
	return err
}

// rodSession renders documents into one tab. Each Render writes the
// document to a temporary file and navigates to it, so file:// images
// resolve the same way they do when the HTML output is opened directly.
type rodSession struct {
	page     *rod.Page
	shell    pipeline.Document
	settings *PageSettings
	html     string
	cleanup  func()
}

// Render loads pages and waits until images and web fonts are in, so the
// following Layout calls see final geometry.
func (s *rodSession) Render(ctx context.Context, pages []paginate.PageView) error {
	doc := s.shell
	doc.Pages = pages
	s.html = pipeline.RenderDocument(doc)

	path, cleanup, err := fileutil.WriteTempFile("", s.html, "html")
	if err != nil {
		return err
	}
	s.releaseFile()
	s.cleanup = cleanup

	page := s.page.Context(ctx)
	if err := page.Navigate("file://" + path); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := page.Eval(waitFontsJS); err != nil {
		return fmt.Errorf("%w: waiting for fonts: %v", ErrPageLoad, err)
	}
	return nil
}

// Layout measures the body of page pageIndex and its blocks.
func (s *rodSession) Layout(ctx context.Context, pageIndex int) (paginate.Layout, error) {
	res, err := s.page.Context(ctx).Eval(measureJS, pageIndex)
	if err != nil {
		return paginate.Layout{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	return parseLayout(res.Value.Str())
}

// HTML returns the document of the last Render.
func (s *rodSession) HTML() string { return s.html }

// PDF prints the current document. Sheet size comes from the @page rule;
// the paper options repeat it for viewers that ignore CSS page size.
func (s *rodSession) PDF(ctx context.Context) ([]byte, error) {
	width, height := s.settings.Dimensions()
	reader, err := s.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(width),
		PaperHeight:       floatPtr(height),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// Close closes the tab and removes the temporary document.
func (s *rodSession) Close() error {
	s.releaseFile()
	return s.page.Close()
}

func (s *rodSession) releaseFile() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

const waitFontsJS = `() => document.fonts.ready.then(() => true)`

// measureJS reports the page body rectangle and the rectangle of each of
// its blocks as a JSON string. A page body that is missing or not laid out
// reports attached=false.
var measureJS = `(index) => {
  const body = document.querySelector('[` + pipeline.AttrPageBody + `="' + index + '"]');
  if (!body || !body.isConnected || body.getClientRects().length === 0) {
    return JSON.stringify({attached: false});
  }
  const rect = (el) => {
    const r = el.getBoundingClientRect();
    return {top: r.top, left: r.left, width: r.width, height: r.height};
  };
  const blocks = {};
  for (const el of body.querySelectorAll(':scope > [` + pipeline.AttrBlock + `]')) {
    blocks[el.getAttribute('` + pipeline.AttrBlock + `')] = rect(el);
  }
  return JSON.stringify({attached: true, container: rect(body), blocks: blocks});
}`

type rectJSON struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r rectJSON) rect() paginate.Rect {
	return paginate.Rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}

type layoutJSON struct {
	Attached  bool                `json:"attached"`
	Container rectJSON            `json:"container"`
	Blocks    map[string]rectJSON `json:"blocks"`
}

// parseLayout decodes the report of measureJS.
func parseLayout(raw string) (paginate.Layout, error) {
	var l layoutJSON
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return paginate.Layout{}, fmt.Errorf("%w: decoding layout: %v", ErrMeasure, err)
	}
	if !l.Attached {
		return paginate.Layout{}, nil
	}

	layout := paginate.Layout{
		Attached:  true,
		Container: l.Container.rect(),
		Blocks:    make(map[int]paginate.Rect, len(l.Blocks)),
	}
	for key, r := range l.Blocks {
		id, err := strconv.Atoi(key)
		if err != nil {
			return paginate.Layout{}, fmt.Errorf("%w: block id %q", ErrMeasure, key)
		}
		layout.Blocks[id] = r.rect()
	}
	return layout, nil
}
