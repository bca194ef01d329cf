package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag and argument errors.
var ErrUsage = errors.New("invalid usage")

// nameNoValue is what pflag stores when --name is given without a value.
// It trims to empty, which means "ask for the name".
const nameNoValue = " "

// defaultHistoryLimit is how many entries "nb2pdf history" lists.
const defaultHistoryLimit = 20

// commonFlags holds flags shared across commands.
type commonFlags struct {
	settings string
	quiet    bool
	verbose  bool
}

// runtimeFlags override interpreter-related settings.
type runtimeFlags struct {
	python    string
	renderer  string
	workspace []string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common      commonFlags
	runtime     runtimeFlags
	name        string
	customName  bool
	timeout     string
	metricsFile string
	json        bool
	noInput     bool
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common  commonFlags
	runtime runtimeFlags
	json    bool
}

// historyFlags holds flags for the history command.
type historyFlags struct {
	common commonFlags
	limit  int
	clear  bool
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.settings, "settings", "s", "", "settings file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage details and timings")
}

// addRuntimeFlags adds interpreter and renderer override flags to a FlagSet.
func addRuntimeFlags(fs *flag.FlagSet, f *runtimeFlags) {
	fs.StringVarP(&f.python, "python", "p", "", "Python interpreter to use")
	fs.StringVar(&f.renderer, "renderer", "", "renderer script path")
	fs.StringSliceVarP(&f.workspace, "workspace", "w", nil, "workspace root (repeatable)")
}

// newConvertFlagSet registers the convert flags into f.
// Shared by parseConvertFlags and completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.name, "name", "n", "", "ask for the PDF file name, or set it with --name=<file>")
	fs.Lookup("name").NoOptDefVal = nameNoValue
	fs.StringVarP(&f.timeout, "timeout", "t", "", "renderer timeout (e.g., 90s, 5m)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	fs.BoolVar(&f.json, "json", false, "print the conversion report as JSON")
	fs.BoolVar(&f.noInput, "no-input", false, "never show pickers, prompts or menus")

	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	return fs
}

func newCheckFlagSet(f *checkFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	return fs
}

func newHistoryFlagSet(f *historyFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.IntVarP(&f.limit, "limit", "l", defaultHistoryLimit, "number of entries to show")
	fs.BoolVar(&f.clear, "clear", false, "delete all entries")
	fs.BoolVar(&f.json, "json", false, "print entries as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func newConfigureFlagSet(f *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("configure", flag.ContinueOnError)
	addCommonFlags(fs, f)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	if err := parse(fs, args, func() { printConvertUsage(usage) }); err != nil {
		return nil, nil, err
	}

	f.customName = fs.Changed("name")
	f.name = strings.TrimSpace(f.name)
	if len(fs.Args()) > 1 {
		return nil, nil, fmt.Errorf("%w: expected at most one notebook, got %d", ErrUsage, len(fs.Args()))
	}
	return f, fs.Args(), nil
}

func parseCheckFlags(args []string, usage io.Writer) (*checkFlags, error) {
	f := &checkFlags{}
	if err := parse(newCheckFlagSet(f), args, func() { printCheckUsage(usage) }); err != nil {
		return nil, err
	}
	return f, nil
}

func parseHistoryFlags(args []string, usage io.Writer) (*historyFlags, error) {
	f := &historyFlags{}
	if err := parse(newHistoryFlagSet(f), args, func() { printHistoryUsage(usage) }); err != nil {
		return nil, err
	}
	if f.limit <= 0 {
		return nil, fmt.Errorf("%w: --limit must be positive, got %d", ErrUsage, f.limit)
	}
	return f, nil
}

func parseConfigureFlags(args []string, usage io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	if err := parse(newConfigureFlagSet(f), args, func() { printConfigureUsage(usage) }); err != nil {
		return nil, err
	}
	return f, nil
}

// parse silences pflag's own output: usage goes through the command's help
// printer and errors are reported once by the caller.
// -h/--help returns flag.ErrHelp after printing usage.
func parse(fs *flag.FlagSet, args []string, usage func()) error {
	fs.SetOutput(io.Discard)
	fs.Usage = usage
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}
