package vision

import (
	"image"
)

// Tile прямоугольная область изображения, которая анализируется независимо.
// Pixels указывает на представление поверх буфера анализируемой области, без копирования.
type Tile struct {
	Origin image.Point // левый верхний угол в координатах области
	Pixels *image.Gray
}

// NewTile создаёт представление тайла r (координаты области) поверх area.
func NewTile(area *image.Gray, r image.Rectangle) Tile {
	abs := r.Add(area.Rect.Min).Intersect(area.Rect)
	return Tile{
		Origin: abs.Min.Sub(area.Rect.Min),
		Pixels: area.SubImage(abs).(*image.Gray),
	}
}

// Size возвращает размер тайла.
func (t Tile) Size() image.Point {
	return t.Pixels.Rect.Size()
}

// Bounds возвращает прямоугольник тайла в собственных координатах, начиная с (0,0).
func (t Tile) Bounds() image.Rectangle {
	return image.Rectangle{Max: t.Size()}
}

// Rect возвращает прямоугольник тайла в координатах области.
func (t Tile) Rect() image.Rectangle {
	return image.Rectangle{Min: t.Origin, Max: t.Origin.Add(t.Size())}
}

// At возвращает яркость пикселя в координатах тайла.
func (t Tile) At(x, y int) uint8 {
	return t.Pixels.Pix[y*t.Pixels.Stride+x]
}

// PlanTiles разбивает область size на тайлы tileSize×tileSize с шагом stride.
// Последняя строка и столбец тайлов обрезаются по краю области и всегда обрабатываются.
func PlanTiles(size image.Point, tileSize, stride int) []image.Rectangle {
	if tileSize <= 0 || stride <= 0 || size.X <= 0 || size.Y <= 0 {
		return nil
	}
	cols := (size.X + stride - 1) / stride
	rows := (size.Y + stride - 1) / stride
	tiles := make([]image.Rectangle, 0, cols*rows)
	for y := 0; y < size.Y; y += stride {
		for x := 0; x < size.X; x += stride {
			r := image.Rect(x, y, minInt(x+tileSize, size.X), minInt(y+tileSize, size.Y))
			tiles = append(tiles, r)
		}
	}
	return tiles
}

// FullTiles считает тайлы полного размера среди tiles.
func FullTiles(tiles []image.Rectangle, tileSize int) int {
	n := 0
	for _, r := range tiles {
		if r.Dx() == tileSize && r.Dy() == tileSize {
			n++
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
