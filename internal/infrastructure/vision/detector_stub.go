//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

var _ port.DefectDetector = (*GoCVDetector)(nil)

// ErrGoCVDisabled сборка без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVDetector struct{}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{}
}

// Inspect проверяет запрос и возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Inspect(ctx context.Context, req entity.InspectionRequest) (*entity.InspectionResult, error) {
	_ = ctx
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	return nil, ErrGoCVDisabled
}

// HighlightDefects возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) HighlightDefects(img *image.Gray, result *entity.InspectionResult, padding int) (image.Image, error) {
	_ = img
	_ = result
	_ = padding
	return nil, ErrGoCVDisabled
}
