package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return finish(env, runConvert(ctx, rest, env))
	case "configure":
		return finish(env, runConfigure(ctx, rest, env))
	case "check":
		return runCheck(ctx, rest, env)
	case "history":
		return finish(env, runHistory(ctx, rest, env))
	case "completion":
		return finish(env, runCompletion(rest, env))
	case "version":
		fmt.Fprintf(env.Stdout, "nb2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	// "nb2pdf hw1.ipynb" is shorthand for "nb2pdf convert hw1.ipynb"
	if fileutil.HasExtFold(cmd, nb2pdf.NotebookExt) {
		return finish(env, runConvert(ctx, args[1:], env))
	}

	fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// finish prints err and maps it to an exit code. Aborted conversions have
// already been reported by a notification, so only their hints are printed.
func finish(env *Environment, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if errors.Is(err, nb2pdf.ErrAborted) {
		if hint := hintsOf(err); hint != "" {
			fmt.Fprintln(env.Stderr, hint)
		}
	} else {
		fmt.Fprintf(env.Stderr, "nb2pdf: %v\n", err)
	}
	return exitCodeFor(err)
}

// hintsOf returns the "hint:" lines of an error message.
func hintsOf(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "\n  hint: ")
	if i < 0 {
		return ""
	}
	return msg[i+1:]
}

// wantsVerbose scans raw arguments before any flag set is built.
func wantsVerbose(args []string) bool {
	for _, a := range args[1:] {
		if a == "--" {
			return false
		}
		if a == "--verbose" || a == "-v" {
			return true
		}
	}
	return false
}
