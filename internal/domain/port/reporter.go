package port

import (
	"io"

	"surface-inspector/internal/domain/entity"
)

// DefectReporter интерфейс вывода списка дефектов для оператора
type DefectReporter interface {
	// Report записывает результат проверки в w
	Report(w io.Writer, result *entity.InspectionResult) error
}
