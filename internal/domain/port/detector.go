package port

import (
	"context"
	"image"

	"surface-inspector/internal/domain/entity"
)

// DefectDetector интерфейс детектора дефектов
type DefectDetector interface {
	// Inspect анализирует изображение и возвращает результат инспекции
	Inspect(ctx context.Context, req entity.InspectionRequest) (*entity.InspectionResult, error)

	// HighlightDefects создаёт изображение с подсветкой дефектов
	HighlightDefects(img *image.Gray, result *entity.InspectionResult, padding int) (image.Image, error)
}

// DefectSink потокобезопасная коллекция дефектов, в которую можно только добавлять
type DefectSink interface {
	Append(defects ...entity.Defect)
}
