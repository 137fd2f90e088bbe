package report

import (
	"encoding/json"
	"io"

	"surface-inspector/internal/domain/entity"
)

// JSONReporter пишет результат проверки как JSON-документ.
type JSONReporter struct{}

// NewJSONReporter создаёт JSON-репортер
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Report сериализует результат с дефектами в порядке сверху вниз.
func (r *JSONReporter) Report(w io.Writer, result *entity.InspectionResult) error {
	if result == nil {
		result = entity.EmptyResult()
	}
	out := *result
	out.Defects = ordered(result.Defects)
	if out.Defects == nil {
		out.Defects = []entity.Defect{}
	}
	if out.BoundaryRows == nil {
		out.BoundaryRows = []int{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
