package report

import (
	"encoding/json"
	"io"

	"github.com/skylos-dev/skylos/internal/model"
)

// WriteJSON encodes the full analysis result as the single object described
// in the external interface: unused_functions, unused_imports,
// unused_classes, unused_variables, secrets, danger, quality,
// analysis_summary.
func WriteJSON(w io.Writer, r model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
