package imageio

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"surface-inspector/internal/domain/port"
)

// Codec читает и пишет изображения на диске. Форматы определяются imaging по расширению.
type Codec struct{}

// NewCodec создаёт кодек
func NewCodec() *Codec {
	return &Codec{}
}

// Load читает файл и приводит его к плотному полутоновому буферу с началом в (0,0).
func (c *Codec) Load(path string) (*image.Gray, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return ToGray(img), nil
}

// Crop вырезает область, обрезанную по границам изображения. Результат начинается в (0,0).
func (c *Codec) Crop(img image.Image, area image.Rectangle) image.Image {
	return imaging.Crop(img, area)
}

// Save пишет изображение, формат берётся из расширения path.
func (c *Codec) Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}

// ToGray переводит изображение в *image.Gray по яркости.
// Плотный Gray с началом в (0,0) возвращается без копирования.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) && g.Stride == g.Rect.Dx() {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

var _ port.ImageCodec = (*Codec)(nil)
