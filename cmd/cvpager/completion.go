package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cvpager/internal/dateutil"
)

// Shell is a shell that completion scripts can be generated for.
type Shell string

// Supported shells.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

var supportedShells = []Shell{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// ErrUnsupportedShell is returned for an unknown shell name.
var ErrUnsupportedShell = errors.New("unsupported shell")

// inputExts are the file types render accepts as input.
var inputExts = []string{"yaml", "yml", "toml", "json", "md", "markdown"}

type flagKind int

const (
	flagValue flagKind = iota // takes a free-form value
	flagBool
	flagEnum
	flagFile
	flagDir
)

// flagDef describes one flag for completion.
type flagDef struct {
	long   string
	short  string
	kind   flagKind
	desc   string
	values []string // flagEnum
	exts   []string // flagFile
}

func (f flagDef) takesValue() bool { return f.kind != flagBool }

// commandDef describes one command for completion.
type commandDef struct {
	name  string
	desc  string
	flags []flagDef
	args  []string // fixed argument words
	files []string // file extensions accepted as arguments
}

// completionHints adds value hints to render flags. Names, shorthands and
// descriptions come from the FlagSet.
var completionHints = map[string]flagDef{
	"page-size":   {kind: flagEnum, values: []string{"letter", "a4", "legal"}},
	"orientation": {kind: flagEnum, values: []string{"portrait", "landscape"}},
	"date-format": {kind: flagEnum, values: slices.Sorted(maps.Keys(dateutil.Presets))},
	"config":      {kind: flagFile, exts: []string{"yaml", "yml", "toml"}},
	"style":       {kind: flagFile, exts: []string{"css"}},
	"output":      {kind: flagDir},
	"asset-path":  {kind: flagDir},
}

// flagDefs converts a FlagSet into completion flags, in lexical order.
func flagDefs(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{long: f.Name, short: f.Shorthand, desc: f.Usage}
		if f.Value.Type() == "bool" {
			d.kind = flagBool
		}
		if hint, ok := completionHints[f.Name]; ok {
			d.kind, d.values, d.exts = hint.kind, hint.values, hint.exts
		}
		defs = append(defs, d)
	})
	return defs
}

// commands returns the completion registry. Render flags come from the
// same FlagSet the parser uses.
func commands() []commandDef {
	var shells []string
	for _, s := range supportedShells {
		shells = append(shells, string(s))
	}
	return []commandDef{
		{
			name:  "render",
			desc:  "Paginate profiles or Markdown documents into PDF",
			flags: flagDefs(newRenderFlagSet(&renderFlags{})),
			files: inputExts,
		},
		{
			name:  "doctor",
			desc:  "Check Chrome and the environment",
			flags: []flagDef{{long: "json", kind: flagBool, desc: "print the report as JSON"}},
		},
		{name: "version", desc: "Show version information"},
		{name: "help", desc: "Show help for a command", args: []string{"render", "doctor", "version", "completion"}},
		{name: "completion", desc: "Generate a shell completion script", args: shells},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := commands()
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	case ShellPowerShell:
		script = powerShellScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletionCmd handles "cvpager completion <shell>".
func runCompletionCmd(args []string, env *Environment) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		fmt.Fprintf(env.Stderr, "%s %v\n", tagError, err)
		if errors.Is(err, ErrUnsupportedShell) {
			return ExitUsage
		}
		return ExitIO
	}
	return ExitSuccess
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvpager completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script for bash, zsh, fish or powershell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(cvpager completion bash)\"          # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(cvpager completion zsh)\"           # ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        cvpager completion fish > ~/.config/fish/completions/cvpager.fish")
	fmt.Fprintln(w, "  PowerShell:  cvpager completion powershell | Out-String | Invoke-Expression")
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.name
	}
	return names
}

func flagWords(defs []flagDef) []string {
	var words []string
	for _, f := range defs {
		words = append(words, "--"+f.long)
		if f.short != "" {
			words = append(words, "-"+f.short)
		}
	}
	return words
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for cvpager\n")
	b.WriteString("_cvpager_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.name)

		var valueCases []string
		for _, f := range c.flags {
			if !f.takesValue() {
				continue
			}
			pattern := "--" + f.long
			if f.short != "" {
				pattern += "|-" + f.short
			}
			valueCases = append(valueCases, fmt.Sprintf("        %s) %s; return ;;\n", pattern, bashValueReply(f)))
		}
		if len(valueCases) > 0 {
			b.WriteString("        case \"${prev}\" in\n")
			for _, vc := range valueCases {
				b.WriteString("    " + vc)
			}
			b.WriteString("        esac\n")
		}
		if len(c.flags) > 0 {
			b.WriteString("        if [[ ${cur} == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(flagWords(c.flags), " "))
			b.WriteString("            return\n        fi\n")
		}
		switch {
		case len(c.args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(c.args, " "))
		case len(c.files) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n", strings.Join(c.files, "|"))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n}\n")
	b.WriteString("complete -o filenames -F _cvpager_completions cvpager\n")
	return b.String()
}

func bashValueReply(f flagDef) string {
	switch f.kind {
	case flagEnum:
		return fmt.Sprintf("COMPREPLY=( $(compgen -W %q -- \"${cur}\") )", strings.Join(f.values, " "))
	case flagFile:
		return fmt.Sprintf("COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\") )", strings.Join(f.exts, "|"))
	case flagDir:
		return "COMPREPLY=( $(compgen -d -- \"${cur}\") )"
	default:
		return "COMPREPLY=()"
	}
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshQuote escapes text for a single-quoted _arguments spec.
func zshQuote(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef cvpager\n\n")
	b.WriteString("_cvpager() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.name, zshQuote(c.desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    shift words\n    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${words[1]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.name)
		b.WriteString("        _arguments")
		for _, f := range c.flags {
			fmt.Fprintf(&b, " \\\n            %s", zshFlagSpec(f))
		}
		switch {
		case len(c.args) > 0:
			fmt.Fprintf(&b, " \\\n            '1:%s:(%s)'", c.name, strings.Join(c.args, " "))
		case len(c.files) > 0:
			fmt.Fprintf(&b, " \\\n            '*:input:_files -g \"*.(%s)\"'", strings.Join(c.files, "|"))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _cvpager cvpager\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	action := ""
	switch f.kind {
	case flagEnum:
		quoted := make([]string, len(f.values))
		for i, v := range f.values {
			quoted[i] = strings.ReplaceAll(zshQuote(v), " ", `\ `)
		}
		action = fmt.Sprintf(":%s:(%s)", f.long, strings.Join(quoted, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"*.(%s)\"", f.long, strings.Join(f.exts, "|"))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.long)
	case flagValue:
		action = fmt.Sprintf(":%s: ", f.long)
	}

	desc := zshQuote(f.desc)
	if f.short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.short, f.long, f.short, f.long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for cvpager\n\n")
	b.WriteString("function __fish_cvpager_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_cvpager_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\nend\n\n")
	b.WriteString("complete -c cvpager -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c cvpager -n __fish_cvpager_needs_command -a %s -d %s\n", c.name, fishQuote(c.desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_cvpager_using_command " + c.name)
		b.WriteString("\n")
		for _, f := range c.flags {
			line := fmt.Sprintf("complete -c cvpager -n %s", cond)
			if f.short != "" {
				line += " -s " + f.short
			}
			line += " -l " + f.long
			switch f.kind {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagValue:
				line += " -x"
			}
			b.WriteString(line + " -d " + fishQuote(f.desc) + "\n")
		}
		switch {
		case len(c.args) > 0:
			fmt.Fprintf(&b, "complete -c cvpager -n %s -a %s\n", cond, fishQuote(strings.Join(c.args, " ")))
		case len(c.files) > 0:
			fmt.Fprintf(&b, "complete -c cvpager -n %s -F\n", cond)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + strings.ReplaceAll(w, "'", "''") + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# powershell completion for cvpager\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName cvpager -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	fmt.Fprintf(&b, "    $commands = %s\n", psList(commandNames(cmds)))
	b.WriteString("    $candidates = @()\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $candidates = $commands\n")
	b.WriteString("    } else {\n")
	b.WriteString("        switch ($elements[1]) {\n")
	for _, c := range cmds {
		words := append(flagWords(c.flags), c.args...)
		fmt.Fprintf(&b, "            '%s' { $candidates = %s }\n", c.name, psList(words))
	}
	b.WriteString("        }\n    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n}\n")
	return b.String()
}
