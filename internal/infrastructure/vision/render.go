//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"surface-inspector/internal/domain/entity"
)

// HighlightDefects рисует рамки дефектов поверх копии изображения, цвет зависит от типа.
// Исходное изображение не изменяется.
func (d *GoCVDetector) HighlightDefects(img *image.Gray, result *entity.InspectionResult, padding int) (image.Image, error) {
	if img == nil || img.Rect.Empty() {
		return nil, entity.ErrEmptyImage
	}

	gray, err := gocv.ImageGrayToMatGray(compactRegion(img, img.Rect))
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	canvas := gocv.NewMat()
	defer canvas.Close()
	gocv.CvtColor(gray, &canvas, gocv.ColorGrayToBGR)

	if result != nil {
		bounds := image.Rect(0, 0, canvas.Cols(), canvas.Rows())
		for _, defect := range result.Defects {
			rect := HighlightRect(defect, img.Rect.Min, padding, bounds)
			if rect.Empty() {
				continue
			}
			gocv.Rectangle(&canvas, rect, DefectColor(defect.Type), 2)
		}
	}

	return canvas.ToImage()
}
