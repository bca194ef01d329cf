package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert a Jupyter notebook to PDF")
	fmt.Fprintln(w, "  configure   Set student name, roll number, course and assignment")
	fmt.Fprintln(w, "  check       Check Python and required libraries")
	fmt.Fprintln(w, "  history     Show recent conversions")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'nb2pdf <notebook.ipynb>' is short for 'nb2pdf convert <notebook.ipynb>'.")
	fmt.Fprintln(w, "Run 'nb2pdf help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -s, --settings <path>     Settings file (default: user config dir)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stage details and timings")
}

// printRuntimeUsage prints the interpreter and renderer override flags.
func printRuntimeUsage(w io.Writer) {
	fmt.Fprintln(w, "Runtime:")
	fmt.Fprintln(w, "  -p, --python <path>       Python interpreter to use")
	fmt.Fprintln(w, "      --renderer <path>     Renderer script (nb2pdf.py)")
	fmt.Fprintln(w, "  -w, --workspace <dir>     Workspace root, repeatable (default: current dir)")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf convert [notebook] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Jupyter notebook to PDF next to it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  notebook    .ipynb file (optional: NB2PDF_ACTIVE_FILE, else a picker)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -n, --name[=<file>]       Ask for the PDF file name, or set it")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Renderer timeout (default: 60s)")
	fmt.Fprintln(w, "      --json                Print the conversion report as JSON")
	fmt.Fprintln(w, "      --metrics-file <path> Write Prometheus metrics to a file")
	fmt.Fprintln(w, "      --no-input            Never show pickers, prompts or menus")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	printEnvUsage(w)
}

// printConfigureUsage prints usage for the configure command.
func printConfigureUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf configure [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prompt for the student information printed in every PDF header")
	fmt.Fprintln(w, "and save it in the settings file.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf check [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the Python interpreter, the reportlab library and the renderer.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printHistoryUsage prints usage for the history command.
func printHistoryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2pdf history [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show recent conversions, newest first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -l, --limit <n>           Number of entries (default: 20)")
	fmt.Fprintln(w, "      --clear               Delete all entries")
	fmt.Fprintln(w, "      --json                Print entries as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printEnvUsage lists the environment variables.
func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2PDF_SETTINGS           Settings file path")
	fmt.Fprintln(w, "  NB2PDF_PYTHON             Python interpreter")
	fmt.Fprintln(w, "  NB2PDF_TIMEOUT            Renderer timeout")
	fmt.Fprintln(w, "  NB2PDF_RENDERER           Renderer script")
	fmt.Fprintln(w, "  NB2PDF_HISTORY            History database path, or \"off\"")
	fmt.Fprintln(w, "  NB2PDF_ACTIVE_FILE        Notebook focused in the calling editor")
	fmt.Fprintln(w, "  NB2PDF_WORKSPACE          Workspace roots, path-list separated")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "configure":
		printConfigureUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "history":
		printHistoryUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nb2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nb2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
