// Package nb2pdf orchestrates the conversion of Jupyter notebooks to PDF
// reports annotated with student identity fields.
//
// The rendering itself is done by an external Python script (nb2pdf.py) that
// executes the notebook and lays out the PDF with reportlab. This package owns
// everything around that subprocess.
//
// # Quick Start
//
//	conv := nb2pdf.NewConverter(settings,
//	    nb2pdf.WithNotifier(ui),
//	    nb2pdf.WithWorkspaceRoots(root),
//	)
//	report, err := conv.Convert(ctx, nb2pdf.ConversionRequest{
//	    SourcePath: "hw1.ipynb",
//	})
//	if errors.Is(err, nb2pdf.ErrAborted) {
//	    // the notifier already told the user what happened
//	}
//
// # Conversion Pipeline
//
// Each request runs these stages in order. Any stage can stop the pipeline,
// and every stopped or completed request produces exactly one Notification.
//
//  1. Environment verification: `python --version`, then `import reportlab`
//  2. Path resolution: notebook (argument, active document, picker), output
//     PDF (derived or prompted), renderer script (bundled, then workspace)
//  3. Identity config: a request-scoped JSON file removed after the run
//  4. Renderer run under a timeout, then outcome classification
//
// # Outcomes
//
// The output artifact is the ground truth. A renderer that exits non-zero but
// leaves a non-empty PDF yields OutcomeSuccessWithWarnings; a renderer that
// exits zero without a PDF yields OutcomeFailure with CategoryUnknown.
// Failures are classified from the captured error text by Classify, and each
// category maps to a fixed set of remediation Actions. Actions are values:
// the caller decides whether and how to run them.
//
// # Settings
//
// Settings are passed explicitly. Unset identity fields fall back to the
// Default* constants; an empty PythonPath falls back to "python" on Windows
// and "python3" elsewhere.
package nb2pdf
