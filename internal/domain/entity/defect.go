package entity

import "image"

// DefectType тип дефекта относительно фона
type DefectType string

const (
	DefectDark    DefectType = "Dark"    // темнее фона
	DefectBright  DefectType = "Bright"  // светлее фона
	DefectUnknown DefectType = "Unknown" // полярность не определена
)

// Defect представляет найденный дефект в глобальных координатах изображения
type Defect struct {
	X      int        `json:"x"`      // координата X левого верхнего угла
	Y      int        `json:"y"`      // координата Y левого верхнего угла
	Width  int        `json:"width"`  // ширина области в пикселях
	Height int        `json:"height"` // высота области в пикселях
	Type   DefectType `json:"type"`   // тип дефекта
}

// Center возвращает координаты центра дефекта
func (d Defect) Center() (x, y int) {
	return d.X + d.Width/2, d.Y + d.Height/2
}

// Rect возвращает ограничивающий прямоугольник дефекта
func (d Defect) Rect() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

// Area возвращает площадь ограничивающего прямоугольника
func (d Defect) Area() int {
	return d.Width * d.Height
}
