package vision

import (
	"image"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// Detection принятый кандидат в координатах тайла.
type Detection struct {
	Rect image.Rectangle
	Type entity.DefectType
}

// Remap переводит локальное обнаружение в глобальный дефект: local + origin + offset.
func Remap(d Detection, tileOrigin, offset image.Point) entity.Defect {
	r := d.Rect.Add(tileOrigin).Add(offset)
	return entity.Defect{
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
		Type:   d.Type,
	}
}

// CoordinateRemapper переводит обнаружения тайлов в глобальные координаты
// и складывает их в общую коллекцию. Дубликаты не объединяются.
type CoordinateRemapper struct {
	offset image.Point
	sink   port.DefectSink
}

// NewCoordinateRemapper создаёт ремаппер со сдвигом кадрирования offset.
func NewCoordinateRemapper(offset image.Point, sink port.DefectSink) *CoordinateRemapper {
	return &CoordinateRemapper{offset: offset, sink: sink}
}

// Append переводит обнаружения тайла с началом tileOrigin и добавляет их в коллекцию.
// Безопасен для одновременного вызова из разных воркеров, если безопасна коллекция.
func (r *CoordinateRemapper) Append(tileOrigin image.Point, local []Detection) {
	if len(local) == 0 {
		return
	}
	defects := make([]entity.Defect, len(local))
	for i, d := range local {
		defects[i] = Remap(d, tileOrigin, r.offset)
	}
	r.sink.Append(defects...)
}
