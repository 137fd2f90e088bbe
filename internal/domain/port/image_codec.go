package port

import (
	"image"
)

// ImageCodec загрузка и сохранение растров
type ImageCodec interface {
	// Load читает файл и приводит его к оттенкам серого
	Load(path string) (*image.Gray, error)

	// Crop вырезает область изображения для предпросмотра
	Crop(img image.Image, area image.Rectangle) image.Image

	// Save записывает изображение, формат определяется по расширению
	Save(img image.Image, path string) error
}
