package nb2pdf

import (
	"regexp"
	"strings"
)

// Classification is the category derived from renderer error text.
type Classification struct {
	Category Category
	Module   string // Set for CategoryMissingDependency
}

var missingModulePattern = regexp.MustCompile(`No module named ['"]([^'"]+)['"]`)

// Classify maps captured error text to a failure category.
//
// Rules are checked in order, first match wins:
//   - "ModuleNotFoundError" or "No module named": missing dependency; the
//     module name is extracted from "No module named '<m>'", default reportlab
//   - "SyntaxError" or "IndentationError": source document error
//   - "timeout" or "timed out": timeout
//   - lowercased text has "python" and ("not found" or "not recognized"):
//     interpreter not found
//   - anything else: unknown
func Classify(text string) Classification {
	switch {
	case strings.Contains(text, "ModuleNotFoundError") || strings.Contains(text, "No module named"):
		module := RequiredLibrary
		if m := missingModulePattern.FindStringSubmatch(text); m != nil {
			module = m[1]
		}
		return Classification{Category: CategoryMissingDependency, Module: module}

	case strings.Contains(text, "SyntaxError") || strings.Contains(text, "IndentationError"):
		return Classification{Category: CategorySourceDocumentError}

	case strings.Contains(text, "timeout") || strings.Contains(text, "timed out"):
		return Classification{Category: CategoryTimeout}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "python") &&
		(strings.Contains(lower, "not found") || strings.Contains(lower, "not recognized")) {
		return Classification{Category: CategoryInterpreterNotFound}
	}

	return Classification{Category: CategoryUnknown}
}
