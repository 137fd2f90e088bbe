package vision

import (
	"image"
	"image/color"

	"surface-inspector/internal/domain/entity"
)

// DefectColor цвет рамки для типа дефекта.
func DefectColor(t entity.DefectType) color.RGBA {
	switch t {
	case entity.DefectDark:
		return color.RGBA{R: 255, A: 255}
	case entity.DefectBright:
		return color.RGBA{B: 255, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, A: 255}
	}
}

// HighlightRect переводит дефект в координаты холста, расширяет на padding и обрезает по bounds.
// origin задаёт левый верхний угол изображения в координатах дефектов.
func HighlightRect(d entity.Defect, origin image.Point, padding int, bounds image.Rectangle) image.Rectangle {
	r := d.Rect().Sub(origin).Inset(-padding)
	return r.Intersect(bounds)
}
