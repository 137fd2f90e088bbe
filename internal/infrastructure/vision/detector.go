//go:build gocv
// +build gocv

package vision

import (
	"context"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

var _ port.DefectDetector = (*GoCVDetector)(nil)

// GoCVDetector детектор дефектов поверхности на OpenCV.
type GoCVDetector struct {
	engine *Engine
}

// NewGoCVDetector создаёт детектор с извлечением кандидатов через OpenCV.
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{engine: NewEngine(gocvFactory{})}
}

// Inspect разбивает область на тайлы, ищет дефекты и возвращает их в глобальных координатах.
func (d *GoCVDetector) Inspect(ctx context.Context, req entity.InspectionRequest) (*entity.InspectionResult, error) {
	return d.engine.Run(ctx, req)
}
