package entity

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrCropOutOfBounds область кадрирования выходит за границы изображения
	ErrCropOutOfBounds = errors.New("crop rectangle exceeds image bounds")
	// ErrEmptyImage изображение не задано или пустое
	ErrEmptyImage = errors.New("empty image")
)

// InspectionRequest описывает одну проверку: растр, параметры и необязательное кадрирование.
type InspectionRequest struct {
	Image  *image.Gray      // исходное изображение, ядро только читает его
	Config DetectionConfig  // параметры детектора
	Crop   *image.Rectangle // область анализа в координатах изображения, nil: всё изображение
	Offset image.Point      // сдвиг локальных координат кадра в глобальные
}

// Region возвращает анализируемую область в координатах изображения.
func (r InspectionRequest) Region() (image.Rectangle, error) {
	if r.Image == nil || r.Image.Bounds().Empty() {
		return image.Rectangle{}, ErrEmptyImage
	}
	bounds := r.Image.Bounds()
	if r.Crop == nil {
		return bounds, nil
	}
	crop := *r.Crop
	if crop.Empty() || !crop.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("%w: crop %v, image %v", ErrCropOutOfBounds, crop, bounds)
	}
	return crop, nil
}

// Origin возвращает сдвиг, переводящий координаты области region в глобальные.
// Без кадрирования область совпадает с изображением, и её угол входит в сдвиг.
func (r InspectionRequest) Origin(region image.Rectangle) image.Point {
	if r.Crop == nil {
		return r.Offset.Add(region.Min)
	}
	return r.Offset
}

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	ImageWidth   int      `json:"image_width"`   // ширина изображения
	ImageHeight  int      `json:"image_height"`  // высота изображения
	Defects      []Defect `json:"defects"`       // найденные дефекты, порядок не определён
	HasDefects   bool     `json:"has_defects"`   // флаг наличия дефектов
	Tiles        int      `json:"tiles"`         // количество обработанных тайлов
	BoundaryRows []int    `json:"boundary_rows"` // строки швов в глобальных координатах
}

// EmptyResult возвращает результат без дефектов.
func EmptyResult() *InspectionResult {
	return &InspectionResult{Defects: []Defect{}}
}

// CountByType считает дефекты каждого типа.
func (r *InspectionResult) CountByType() map[DefectType]int {
	counts := make(map[DefectType]int, 3)
	for _, d := range r.Defects {
		counts[d.Type]++
	}
	return counts
}
