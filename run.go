package nb2pdf

import (
	"context"
	"path/filepath"
	"time"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// RendererCommand builds the renderer invocation:
//
//	<interpreter> <script> <source> --output <out> --config <cfg>
//
// run from the script's directory.
func RendererCommand(paths ResolvedPaths, configPath string, timeout time.Duration) Command {
	return Command{
		Name: paths.InterpreterPath,
		Args: []string{
			paths.RendererScriptPath,
			paths.SourcePath,
			"--output", paths.OutputPath,
			"--config", configPath,
		},
		Dir:     filepath.Dir(paths.RendererScriptPath),
		Timeout: timeout,
	}
}

// RunRenderer runs the renderer and derives the outcome from the artifact.
//
// A non-empty file at the output path means a PDF was produced, whatever the
// exit status: a failed run that left one is reported as
// OutcomeSuccessWithWarnings. A clean exit without one is a failure of
// CategoryUnknown. A timeout of zero uses DefaultTimeout.
func RunRenderer(ctx context.Context, runner CommandRunner, paths ResolvedPaths, configPath string, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	res := runner.Run(ctx, RendererCommand(paths, configPath, timeout))
	return outcomeFrom(res, paths.OutputPath)
}

func outcomeFrom(res Result, outputPath string) Outcome {
	size, produced := fileutil.NonEmptyFileSize(outputPath)

	if res.Err == nil {
		if produced {
			return Outcome{Kind: OutcomeSuccess, OutputPath: outputPath, SizeBytes: size, Duration: res.Duration}
		}
		return Outcome{
			Kind:       OutcomeFailure,
			Category:   CategoryUnknown,
			RawMessage: missingArtifactMessage(res, outputPath),
			Duration:   res.Duration,
		}
	}

	text := res.ErrorText()
	if produced {
		return Outcome{
			Kind:        OutcomeSuccessWithWarnings,
			OutputPath:  outputPath,
			SizeBytes:   size,
			WarningText: text,
			Duration:    res.Duration,
		}
	}

	c := Classify(text)
	return Outcome{
		Kind:       OutcomeFailure,
		Category:   c.Category,
		Module:     c.Module,
		RawMessage: text,
		Duration:   res.Duration,
	}
}

func missingArtifactMessage(res Result, outputPath string) string {
	msg := "renderer exited successfully but produced no PDF at " + outputPath
	if text := res.ErrorText(); text != "" {
		msg += "\n" + text
	}
	return msg
}
