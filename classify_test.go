package nb2pdf

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		wantCat    Category
		wantModule string
	}{
		{
			name:       "module not found with single quotes",
			text:       "Traceback (most recent call last):\nModuleNotFoundError: No module named 'reportlab'",
			wantCat:    CategoryMissingDependency,
			wantModule: "reportlab",
		},
		{
			name:       "module not found with double quotes",
			text:       `ImportError: No module named "nbformat"`,
			wantCat:    CategoryMissingDependency,
			wantModule: "nbformat",
		},
		{
			name:       "dotted module name",
			text:       "ModuleNotFoundError: No module named 'reportlab.pdfgen'",
			wantCat:    CategoryMissingDependency,
			wantModule: "reportlab.pdfgen",
		},
		{
			name:       "marker without quoted name falls back",
			text:       "ModuleNotFoundError raised while importing",
			wantCat:    CategoryMissingDependency,
			wantModule: RequiredLibrary,
		},
		{
			name:    "syntax error",
			text:    "  File \"<cell>\", line 3\n    print(\nSyntaxError: unexpected EOF while parsing",
			wantCat: CategorySourceDocumentError,
		},
		{
			name:    "indentation error",
			text:    "IndentationError: unexpected indent",
			wantCat: CategorySourceDocumentError,
		},
		{
			name:    "runner timeout",
			text:    "python3: command timed out after 1m0s",
			wantCat: CategoryTimeout,
		},
		{
			name:    "cell timeout",
			text:    "nbclient.exceptions.CellTimeoutError: timeout waiting for cell",
			wantCat: CategoryTimeout,
		},
		{
			name:    "interpreter not found",
			text:    `exec: "python3": executable file not found in $PATH`,
			wantCat: CategoryInterpreterNotFound,
		},
		{
			name:    "windows interpreter not recognized",
			text:    "'Python' is not recognized as an internal or external command",
			wantCat: CategoryInterpreterNotFound,
		},
		{
			name:    "not found without interpreter token",
			text:    "error: file not found",
			wantCat: CategoryUnknown,
		},
		{
			name:    "unknown",
			text:    "ValueError: bad cell metadata",
			wantCat: CategoryUnknown,
		},
		{
			name:    "empty",
			text:    "",
			wantCat: CategoryUnknown,
		},
		{
			name:       "missing module wins over syntax error",
			text:       "SyntaxError: x\nModuleNotFoundError: No module named 'pandas'",
			wantCat:    CategoryMissingDependency,
			wantModule: "pandas",
		},
		{
			name:    "syntax error wins over timeout",
			text:    "SyntaxError in cell; later timed out",
			wantCat: CategorySourceDocumentError,
		},
		{
			name:    "markers are case sensitive",
			text:    "syntaxerror: lowercase",
			wantCat: CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.text)
			if got.Category != tt.wantCat {
				t.Errorf("Classify(%q).Category = %v, want %v", tt.text, got.Category, tt.wantCat)
			}
			if got.Module != tt.wantModule {
				t.Errorf("Classify(%q).Module = %q, want %q", tt.text, got.Module, tt.wantModule)
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	t.Parallel()

	if got := CategoryMissingDependency.String(); got != "missing_dependency" {
		t.Errorf("String() = %q", got)
	}
	if got := Category(99).String(); got != "category(99)" {
		t.Errorf("String() = %q", got)
	}
}
