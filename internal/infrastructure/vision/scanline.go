package vision

import (
	"image"
	"math"
	"sort"
)

// DefaultBoundaryJump скачок средней яркости строки, после которого строка считается швом
const DefaultBoundaryJump = 20.0

// BoundaryRowSet отсортированный набор глобальных индексов строк-швов.
// После создания не изменяется и читается всеми тайлами одновременно.
type BoundaryRowSet struct {
	rows []int
}

// NewBoundaryRowSet создаёт набор из строк в любом порядке.
func NewBoundaryRowSet(rows ...int) BoundaryRowSet {
	sorted := make([]int, len(rows))
	copy(sorted, rows)
	sort.Ints(sorted)

	uniq := sorted[:0]
	for i, r := range sorted {
		if i == 0 || r != sorted[i-1] {
			uniq = append(uniq, r)
		}
	}
	return BoundaryRowSet{rows: uniq}
}

// Len возвращает количество строк-швов.
func (s BoundaryRowSet) Len() int {
	return len(s.rows)
}

// Rows возвращает копию строк.
func (s BoundaryRowSet) Rows() []int {
	out := make([]int, len(s.rows))
	copy(out, s.rows)
	return out
}

// Contains сообщает, помечена ли строка.
func (s BoundaryRowSet) Contains(row int) bool {
	i := sort.SearchInts(s.rows, row)
	return i < len(s.rows) && s.rows[i] == row
}

// Overlaps сообщает, есть ли шов в диапазоне строк [top, bottom] включительно.
func (s BoundaryRowSet) Overlaps(top, bottom int) bool {
	i := sort.SearchInts(s.rows, top)
	return i < len(s.rows) && s.rows[i] <= bottom
}

// ScanlineProfiler строит профиль средней яркости по строкам и находит резкие скачки.
type ScanlineProfiler struct {
	jump float64
}

// NewScanlineProfiler создаёт профайлер с порогом скачка jump.
func NewScanlineProfiler(jump float64) *ScanlineProfiler {
	if jump <= 0 {
		jump = DefaultBoundaryJump
	}
	return &ScanlineProfiler{jump: jump}
}

// RowMeans возвращает среднюю яркость каждой строки img.
func (p *ScanlineProfiler) RowMeans(img *image.Gray) []float64 {
	size := img.Rect.Size()
	means := make([]float64, size.Y)
	if size.X == 0 {
		return means
	}
	for y := 0; y < size.Y; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+size.X]
		sum := 0
		for _, v := range row {
			sum += int(v)
		}
		means[y] = float64(sum) / float64(size.X)
	}
	return means
}

// Profile помечает строки, средняя яркость которых отличается от предыдущей больше порога.
// originY переводит строки img в глобальные координаты.
func (p *ScanlineProfiler) Profile(img *image.Gray, originY int) BoundaryRowSet {
	means := p.RowMeans(img)
	var rows []int
	for y := 1; y < len(means); y++ {
		if math.Abs(means[y]-means[y-1]) > p.jump {
			rows = append(rows, originY+y)
		}
	}
	return NewBoundaryRowSet(rows...)
}
