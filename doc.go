// Package cvpager renders résumés and Markdown documents as paginated,
// printable documents using headless Chrome.
//
// # Quick Start
//
// Create a renderer, render a profile, and close when done:
//
//	r, err := cvpager.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	p, err := cvpager.LoadProfile("profile.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := r.Render(ctx, cvpager.Input{
//	    Profile: p,
//	    Footer:  &cvpager.Footer{ShowPageNumber: true},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("profile.pdf", result.PDF, 0644)
//
// # Pagination
//
// Content is a sequence of indivisible blocks: a profile contributes its
// identity, section headings, entries and the paragraphs and list items of
// their remarks; a Markdown document contributes its top-level elements.
// Pages are fixed-height boxes. The renderer loads every block onto one
// page, measures it in the browser, and moves the first block that does not
// fit, with every block after it, to the next page. It repeats until no
// page overflows. A block taller than a page stays alone on its page.
//
// If moving blocks never settles (content whose height changes between
// renders), pagination stops after as many redistributions as there are
// blocks and the document is produced as it stands. Result.Unresolved
// reports this; WithStrict turns it into ErrUnresolved.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := cvpager.NewRenderer(
//	    cvpager.WithTimeout(time.Minute),
//	    cvpager.WithStyle("default"),
//	    cvpager.WithDates("MMMM YYYY", "today"),
//	    cvpager.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// For batch rendering, use RendererPool to manage multiple browser instances:
//
//	pool := cvpager.NewRendererPool(cvpager.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r := pool.Acquire()
//	defer pool.Release(r)
//
// # Environment
//
// ROD_BROWSER_BIN selects the Chrome binary. ROD_NO_SANDBOX=1 disables the
// Chrome sandbox, which containers and CI usually require.
package cvpager
