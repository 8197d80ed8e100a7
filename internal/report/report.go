// Package report renders an AnalysisResult as plain text or JSON.
package report

import "github.com/skylos-dev/skylos/internal/model"

// category bundles one unused-definition list with the label used in both
// renderers, so WriteText and WriteJSON can't drift on naming or ordering.
type category struct {
	label string
	defs  []model.Definition
}

func categories(r model.AnalysisResult) []category {
	return []category{
		{"Unused Functions", r.UnusedFunctions},
		{"Unused Classes", r.UnusedClasses},
		{"Unused Imports", r.UnusedImports},
		{"Unused Variables", r.UnusedVariables},
	}
}
