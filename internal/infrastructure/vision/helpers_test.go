package vision

import (
	"image"
	"image/color"
)

func grayValue(v uint8) color.Gray {
	return color.Gray{Y: v}
}

func filledGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	fillRect(img, img.Rect, v)
	return img
}

func fillRect(img *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, grayValue(v))
		}
	}
}

// checker заполняет r шахматкой из a и b.
func checker(img *image.Gray, r image.Rectangle, a, b uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := a
			if (x+y)%2 == 1 {
				v = b
			}
			img.SetGray(x, y, grayValue(v))
		}
	}
}

func wholeTile(img *image.Gray) Tile {
	return NewTile(img, img.Rect)
}
