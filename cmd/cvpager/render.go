package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	cvpager "github.com/alnah/go-cvpager"
	"github.com/alnah/go-cvpager/internal/config"
	"github.com/alnah/go-cvpager/internal/hints"
)

// ErrUsage reports invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// runRenderCmd runs the render command and returns an exit code.
func runRenderCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(ctx)
	defer stop()

	if err := runRender(ctx, positional, flags, env); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(env.Stderr, "%s %v%s\n", tagError, err, hintFor(err))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runRender orchestrates one render run: config, discovery, the pool and
// result reporting.
func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	configPath := flags.common.config
	if configPath == "" {
		configPath = envCfg.ConfigPath
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, resolveLevel(cfg.Log.Level, flags.common.verbose, flags.common.quiet), cfg.Log.Format)
	setMaxProcs(logger)
	warnUnknownEnvVars(logger, env.Environ())

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir, configPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no profiles or Markdown files in %s", ErrNoInput, inputPath)
	}

	params := buildRenderParams(cfg, flags.outputMode)
	poolSize := min(cvpager.ResolvePoolSize(workers), len(files))
	logger.Debug("starting render", "files", len(files), "workers", poolSize)

	pool := env.NewPool(poolSize, buildRendererOptions(cfg, logger))
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing renderers", "err", err)
		}
	}()

	results := renderBatch(ctx, pool, files, params)
	return reportResults(results, flags.common, logger, env)
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.outputMode.html {
		cfg.Output.HTML = true
	}
	if flags.timeout != "" {
		cfg.Pagination.Timeout = flags.timeout
	}
	if flags.strict {
		cfg.Pagination.Strict = true
	}
	if flags.dateFormat != "" {
		cfg.Dates.Format = flags.dateFormat
	}

	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	d := flags.decoration
	if d.headerText != "" {
		cfg.Header.Enabled = true
		cfg.Header.Text = d.headerText
	}
	if d.noHeader {
		cfg.Header.Enabled = false
	}
	if d.footerText != "" {
		cfg.Footer.Enabled = true
		cfg.Footer.Text = d.footerText
	}
	if d.footerDate != "" {
		cfg.Footer.Enabled = true
		cfg.Footer.Date = d.footerDate
	}
	if d.pageNumber {
		cfg.Footer.Enabled = true
		cfg.Footer.ShowPageNumber = true
	}
	if d.noFooter {
		cfg.Footer.Enabled = false
	}

	if flags.assets.style != "" {
		cfg.Style.Name = flags.assets.style
	}
	if flags.assets.templates != "" {
		cfg.Assets.Templates = flags.assets.templates
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// resolveInputPath picks the positional input, falling back to
// input.defaultDir.
func resolveInputPath(positional []string, cfg *config.Config) (string, error) {
	if len(positional) > 0 {
		return positional[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// buildRenderParams derives the per-input settings from the config.
func buildRenderParams(cfg *config.Config, mode outputFlags) *renderParams {
	params := &renderParams{
		page: &cvpager.PageSettings{
			Size:        cfg.Page.Size,
			Orientation: cfg.Page.Orientation,
			Margin:      cfg.Page.Margin,
		},
		html:     cfg.Output.HTML,
		htmlOnly: mode.htmlOnly,
	}
	if cfg.Header.Enabled {
		params.header = &cvpager.Header{Text: cfg.Header.Text}
	}
	if cfg.Footer.Enabled {
		params.footer = &cvpager.Footer{
			ShowPageNumber: cfg.Footer.ShowPageNumber,
			Date:           cfg.Footer.Date,
			Text:           cfg.Footer.Text,
		}
		if l := cfg.Footer.Link; l.Label != "" || l.URL != "" {
			params.footer.Link = &cvpager.Link{Label: l.Label, URL: l.URL}
		}
	}
	return params
}

// buildRendererOptions derives the renderer options from the config. Empty
// values keep the renderer defaults.
func buildRendererOptions(cfg *config.Config, logger *log.Logger) []cvpager.Option {
	opts := []cvpager.Option{
		cvpager.WithTimeout(cfg.Pagination.TimeoutDuration()),
		cvpager.WithStrict(cfg.Pagination.Strict),
		cvpager.WithDates(cfg.Dates.Format, cfg.Dates.Present),
		cvpager.WithLogger(logger),
	}
	if cfg.Style.Name != "" {
		opts = append(opts, cvpager.WithStyle(cfg.Style.Name))
	}
	if cfg.Assets.Templates != "" {
		opts = append(opts, cvpager.WithTemplateSet(cfg.Assets.Templates))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cvpager.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Pagination.MaxIdlePasses > 0 {
		opts = append(opts, cvpager.WithMaxIdlePasses(cfg.Pagination.MaxIdlePasses))
	}
	return opts
}

// reportResults prints one line per file and returns the first failure.
func reportResults(results []RenderResult, common commonFlags, logger *log.Logger, env *Environment) error {
	summary := countResults(results)
	var firstErr error

	for _, r := range results {
		if r.Unresolved {
			logger.Warn("pagination did not settle", "file", r.InputPath, "pages", r.Pages, "redistributions", r.Redistributions)
		}
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v%s\n", tagError, r.InputPath, r.Err, hintFor(r.Err))
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		logger.Debug("rendered", "file", r.InputPath, "pages", r.Pages, "passes", r.Passes, "redistributions", r.Redistributions)
		if common.quiet {
			continue
		}
		printResult(env.Stdout, r, common.verbose)
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstErr != nil {
		return &reportedError{err: firstErr}
	}
	return nil
}

func printResult(w io.Writer, r RenderResult, verbose bool) {
	tag := tagOK
	if r.Unresolved {
		tag = tagUnsettled
	}
	if verbose {
		fmt.Fprintf(w, "%s %s -> %s %s\n", tag, r.InputPath, r.OutputPath,
			styleDim.Render(fmt.Sprintf("(%d pages, %s)", r.Pages, r.Duration.Round(time.Millisecond))))
		return
	}
	fmt.Fprintf(w, "%s Created %s\n", tag, r.OutputPath)
}

// reportedError marks a failure whose details were already printed per file.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// hintFor returns the hint that matches err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, cvpager.ErrUnresolved):
		return hints.ForUnresolved()
	case errors.Is(err, cvpager.ErrBrowserConnect), errors.Is(err, cvpager.ErrPageCreate):
		return hints.ForBrowserConnect()
	case errors.Is(err, cvpager.ErrStyleNotFound):
		return hints.ForStyleNotFound(cvpager.Styles())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("cvpager"))
	case errors.Is(err, ErrInvalidExtension):
		return hints.ForProfileFormat()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
