package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string // --python
	Short    string // -p (empty if none)
	Desc     string // help text
	TakesArg bool   // false for booleans
	FileGlob string // for file flags
	IsDir    bool   // directory completion
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments (e.g., "*.ipynb")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"settings":     {FileGlob: "*.yaml,*.yml"},
	"renderer":     {FileGlob: "*.py"},
	"metrics-file": {FileGlob: "*.prom"},
	"workspace":    {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			TakesArg: f.Value.Type() != "bool" && f.NoOptDefVal == "",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.FileGlob = meta.FileGlob
			fd.IsDir = meta.IsDir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert a Jupyter notebook to PDF",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			FilePattern: "*.ipynb",
		},
		{
			Name:  "configure",
			Desc:  "Set student name, roll number, course and assignment",
			Flags: extractFlagsFromFlagSet(newConfigureFlagSet(&commonFlags{})),
		},
		{
			Name:  "check",
			Desc:  "Check Python and required libraries",
			Flags: extractFlagsFromFlagSet(newCheckFlagSet(&checkFlags{})),
		},
		{
			Name:  "history",
			Desc:  "Show recent conversions",
			Flags: extractFlagsFromFlagSet(newHistoryFlagSet(&historyFlags{})),
		},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		generateBash(w, cmds)
	case ShellZsh:
		generateZsh(w, cmds)
	case ShellFish:
		generateFish(w, cmds)
	case ShellPowerShell:
		generatePowerShell(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	return nil
}

func generateBash(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# bash completion for nb2pdf")
	fmt.Fprintln(w, "_nb2pdf_completions() {")
	fmt.Fprintln(w, `    local cur prev cmd`)
	fmt.Fprintln(w, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(w, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(w, `    cmd="${COMP_WORDS[1]}"`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    if [[ ${COMP_CWORD} -eq 1 ]]; then`)
	fmt.Fprintf(w, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$prev" in`)
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			if f.IsDir {
				fmt.Fprintf(w, "        --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", f.Long)
			} else if f.FileGlob != "" {
				fmt.Fprintf(w, "        --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", f.Long)
			}
		}
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$cmd" in`)
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprintln(w, `            if [[ "$cur" == -* ]]; then`)
		fmt.Fprintf(w, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		if c.FilePattern != "" {
			fmt.Fprintln(w, "            else")
			fmt.Fprintf(w, "                COMPREPLY=($(compgen -f -X '!%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", c.FilePattern)
		}
		fmt.Fprintln(w, "            fi")
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -F _nb2pdf_completions nb2pdf")
}

func generateZsh(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "#compdef nb2pdf")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_nb2pdf() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case ${words[2]} in")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprint(w, "            _arguments")
		for _, f := range c.Flags {
			fmt.Fprintf(w, " \\\n                '--%s[%s]%s'", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(w, " \\\n                '*:notebook:_files -g \"%s\"'", c.FilePattern)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `_nb2pdf "$@"`)
}

func generateFish(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# fish completion for nb2pdf")
	fmt.Fprintln(w, "function __fish_nb2pdf_needs_command")
	fmt.Fprintln(w, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(w, "    test (count $cmd) -eq 1")
	fmt.Fprintln(w, "end")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "function __fish_nb2pdf_using_command")
	fmt.Fprintln(w, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(w, "    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]")
	fmt.Fprintln(w, "end")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "complete -c nb2pdf -f")
	for _, c := range cmds {
		fmt.Fprintf(w, "complete -c nb2pdf -n __fish_nb2pdf_needs_command -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_nb2pdf_using_command %s'", c.Name)
		if c.FilePattern != "" {
			ext := strings.TrimPrefix(c.FilePattern, "*")
			fmt.Fprintf(w, "complete -c nb2pdf -n %s -a '(__fish_complete_suffix %s)'\n", cond, ext)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c nb2pdf -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			if f.TakesArg {
				line += " -r"
				if f.FileGlob != "" || f.IsDir {
					line += " -F"
				}
			}
			fmt.Fprintf(w, "%s -d %q\n", line, f.Desc)
		}
	}
}

func generatePowerShell(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# PowerShell completion for nb2pdf")
	fmt.Fprintln(w, "Register-ArgumentCompleter -Native -CommandName nb2pdf -ScriptBlock {")
	fmt.Fprintln(w, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(w, "    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }")
	fmt.Fprintln(w, "    $commands = @{")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    $flags = @{")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s' = @(%s)\n", c.Name, psFlagList(c.Flags))
	}
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    if ($words.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {")
	fmt.Fprintln(w, "        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(w, "            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)")
	fmt.Fprintln(w, "        }")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    $cmd = $words[1]")
	fmt.Fprintln(w, "    if ($flags.ContainsKey($cmd)) {")
	fmt.Fprintln(w, "        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(w, "            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)")
	fmt.Fprintln(w, "        }")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "}")
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func psFlagList(flags []flagDef) string {
	quoted := make([]string, len(flags))
	for i, f := range flags {
		quoted[i] = "'--" + f.Long + "'"
	}
	return strings.Join(quoted, ", ")
}

func zshAction(f flagDef) string {
	switch {
	case !f.TakesArg:
		return ""
	case f.IsDir:
		return ":directory:_directories"
	case f.FileGlob != "":
		return fmt.Sprintf(":file:_files -g \"%s\"", strings.ReplaceAll(f.FileGlob, ",", " "))
	default:
		return ":value:"
	}
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(nb2pdf completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(nb2pdf completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    nb2pdf completion fish > ~/.config/fish/completions/nb2pdf.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    nb2pdf completion powershell | Out-String | Invoke-Expression")
}
