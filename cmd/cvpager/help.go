package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvpager <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Paginate profiles or Markdown documents into PDF")
	fmt.Fprintln(w, "  doctor     Check Chrome and the environment")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cvpager help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvpager render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Paginate a profile (.yaml, .yml, .toml, .json) or a Markdown document")
	fmt.Fprintln(w, "(.md, .markdown). A directory renders every matching file inside it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "      --html                Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pagination:")
	fmt.Fprintln(w, "      --strict              Fail (exit 5) when pagination does not settle")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header and footer:")
	fmt.Fprintln(w, "      --header-text <s>     Text above each page")
	fmt.Fprintln(w, "      --no-header           Disable header")
	fmt.Fprintln(w, "      --footer-text <s>     Text below each page")
	fmt.Fprintln(w, "      --footer-date <s>     Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "      --page-number         Show page numbers")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates:")
	fmt.Fprintln(w, "      --date-format <s>     Entry dates, e.g. \"MMM YYYY\" (default)")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long, month, numeric")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name or CSS file path")
	fmt.Fprintln(w, "      --templates <s>       Header/footer template set")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show pagination diagnostics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (overrides the config file, flags override it):")
	fmt.Fprintln(w, "  CVPAGER_CONFIG, CVPAGER_STYLE, CVPAGER_TIMEOUT, CVPAGER_WORKERS,")
	fmt.Fprintln(w, "  CVPAGER_INPUT_DIR, CVPAGER_OUTPUT_DIR, CVPAGER_PAGE_SIZE,")
	fmt.Fprintln(w, "  CVPAGER_ASSET_PATH, CVPAGER_LOG_LEVEL, CVPAGER_LOG_FORMAT")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvpager doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome can be found and the environment can render.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cvpager version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cvpager help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
