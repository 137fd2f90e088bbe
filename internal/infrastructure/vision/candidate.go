package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"surface-inspector/internal/domain/entity"
)

// Candidate связная область маски кандидатов в координатах тайла.
type Candidate struct {
	Rect      image.Rectangle // ограничивающий прямоугольник
	Area      float64         // площадь контура
	Perimeter float64         // длина замкнутого контура

	// Суммарный отклик тоновых каналов внутри Rect.
	DarkResponse   float64 // среднетоновый канал
	BrightResponse float64 // теневой канал
}

// Circularity возвращает 4π·area/perimeter², для вырожденного контура 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter <= 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// AspectRatio возвращает отношение ширины к высоте, для пустой высоты 0.
func AspectRatio(r image.Rectangle) float64 {
	if r.Dy() == 0 {
		return 0
	}
	return float64(r.Dx()) / float64(r.Dy())
}

// Measurement все величины, по которым принимается решение о кандидате.
type Measurement struct {
	Candidate
	Type        entity.DefectType
	Aspect      float64
	Circularity float64
	Mean        float64 // по исходному тайлу, без маскирования
	StdDev      float64
	TileSize    image.Point
	Top         int // глобальная верхняя строка
	Bottom      int // Top + высота
}

// regionStats считает среднее и стандартное отклонение яркости в r.
func regionStats(t Tile, r image.Rectangle) (mean, std float64) {
	r = r.Intersect(t.Bounds())
	if r.Empty() {
		return 0, 0
	}
	values := make([]float64, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			values = append(values, float64(t.At(x, y)))
		}
	}
	return stat.PopMeanStdDev(values, nil)
}

// ringMean возвращает среднюю яркость кольца шириной width вокруг r.
func ringMean(t Tile, r image.Rectangle, width int) (float64, bool) {
	outer := r.Inset(-width).Intersect(t.Bounds())
	sum, n := 0.0, 0
	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		for x := outer.Min.X; x < outer.Max.X; x++ {
			if image.Pt(x, y).In(r) {
				continue
			}
			sum += float64(t.At(x, y))
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// resolveType определяет тип по каналу с большим откликом.
// Если тоновые каналы молчат, тип берётся по полярности области относительно окружения.
func resolveType(c Candidate, t Tile, ring int, inner float64) entity.DefectType {
	switch {
	case c.DarkResponse > c.BrightResponse:
		return entity.DefectDark
	case c.BrightResponse > c.DarkResponse:
		return entity.DefectBright
	}
	around, ok := ringMean(t, c.Rect, ring)
	switch {
	case !ok:
		return entity.DefectUnknown
	case inner < around:
		return entity.DefectDark
	case inner > around:
		return entity.DefectBright
	}
	return entity.DefectUnknown
}
