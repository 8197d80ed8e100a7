// Package aggregator merges every file's definitions, references, and
// findings into a single project-wide AnalysisResult: it builds the
// reference-count map, resolves each definition's final reference count,
// filters by confidence threshold, and classifies the survivors that are
// never referenced.
package aggregator

import (
	"sort"

	"github.com/skylos-dev/skylos/internal/model"
)

// Aggregate runs the sequential merge step described in the pipeline: it is
// the only stage that sees every file's output at once, and it never
// mutates a Definition's confidence, only its References count.
func Aggregate(results []model.FileResult, threshold int) model.AnalysisResult {
	refCount := make(map[string]int)
	var allDefs []model.Definition
	var secrets, danger, quality []model.Finding

	for _, fr := range results {
		allDefs = append(allDefs, fr.Definitions...)
		secrets = append(secrets, fr.Secrets...)
		danger = append(danger, fr.Danger...)
		quality = append(quality, fr.Quality...)
		for _, r := range fr.References {
			refCount[r.Name]++
		}
	}

	result := model.AnalysisResult{
		Secrets: secrets,
		Danger:  danger,
		Quality: quality,
	}

	for _, d := range allDefs {
		if count, ok := refCount[d.FullName]; ok {
			d.References = count
		} else if count, ok := refCount[d.SimpleName]; ok {
			d.References = count
		}

		if d.Confidence < threshold {
			continue
		}
		if d.References > 0 {
			continue
		}

		switch d.DefType {
		case model.DefFunction, model.DefMethod:
			result.UnusedFunctions = append(result.UnusedFunctions, d)
		case model.DefClass:
			result.UnusedClasses = append(result.UnusedClasses, d)
		case model.DefImport:
			result.UnusedImports = append(result.UnusedImports, d)
		case model.DefVariable:
			result.UnusedVariables = append(result.UnusedVariables, d)
		}
	}

	sortDefs(result.UnusedFunctions)
	sortDefs(result.UnusedClasses)
	sortDefs(result.UnusedImports)
	sortDefs(result.UnusedVariables)
	sortFindings(result.Secrets)
	sortFindings(result.Danger)
	sortFindings(result.Quality)

	result.Summary = model.Summary{
		TotalFiles:      len(results),
		UnusedFunctions: len(result.UnusedFunctions),
		UnusedImports:   len(result.UnusedImports),
		UnusedClasses:   len(result.UnusedClasses),
		UnusedVariables: len(result.UnusedVariables),
		Secrets:         len(secrets),
		Danger:          len(danger),
		Quality:         len(quality),
	}

	return result
}

// sortDefs gives the report a deterministic order regardless of which
// worker goroutine finished first: file, then line, then name.
func sortDefs(defs []model.Definition) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].File != defs[j].File {
			return defs[i].File < defs[j].File
		}
		if defs[i].Line != defs[j].Line {
			return defs[i].Line < defs[j].Line
		}
		return defs[i].Name < defs[j].Name
	})
}

func sortFindings(findings []model.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})
}
