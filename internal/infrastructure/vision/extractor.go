//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"surface-inspector/internal/domain/entity"
)

// Channels карты откликов трёх каналов тайла в CV32F.
type Channels struct {
	MidTone   gocv.Mat // локальные пики в средних тонах, тёмные дефекты
	Shadow    gocv.Mat // инвертированные тени, светлые дефекты
	Frequency gocv.Mat // разность гауссиан, мелкая структура
}

// Close освобождает буферы каналов.
func (c *Channels) Close() {
	c.MidTone.Close()
	c.Shadow.Close()
	c.Frequency.Close()
}

// Extraction маска кандидатов тайла и каналы, из которых она собрана.
type Extraction struct {
	Channels
	Mask gocv.Mat // CV8UC1, 255: кандидат
}

// Close освобождает все буферы извлечения.
func (e *Extraction) Close() {
	e.Channels.Close()
	e.Mask.Close()
}

// DualToneExtractor строит маску кандидатов из двух тоновых top-hat каналов и канала DoG.
type DualToneExtractor struct {
	cfg entity.DetectionConfig
}

// NewDualToneExtractor создаёт экстрактор с параметрами cfg.
func NewDualToneExtractor(cfg entity.DetectionConfig) *DualToneExtractor {
	return &DualToneExtractor{cfg: cfg}
}

// Extract строит маску кандидатов для тайла. tile не изменяется.
// Все промежуточные буферы живут только до Close результата.
func (e *DualToneExtractor) Extract(tile gocv.Mat) (*Extraction, error) {
	if tile.Empty() {
		return nil, errors.New("empty tile")
	}
	if tile.Type() != gocv.MatTypeCV8UC1 {
		return nil, errors.New("tile must be single-channel 8-bit")
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(e.cfg.KernelSize, e.cfg.KernelSize))
	defer kernel.Close()

	keep := SeamMask(tile, e.cfg.SeamBand)
	defer keep.Close()

	ex := &Extraction{}
	ex.MidTone = MidToneTopHat(tile, keep, e.cfg.MidToneBand, kernel)
	ex.Shadow = ShadowTopHat(tile, keep, e.cfg.ShadowBand, kernel)
	ex.Frequency = FrequencyDifference(tile, keep, e.cfg.NarrowSigma, e.cfg.WideSigma)

	fused := gocv.NewMat()
	defer fused.Close()
	gocv.AddWeighted(ex.MidTone, e.cfg.MidToneWeight, ex.Shadow, e.cfg.ShadowWeight, 0, &fused)
	gocv.AddWeighted(fused, 1, ex.Frequency, e.cfg.FrequencyWeight, 0, &fused)

	ex.Mask = Binarize(fused, e.cfg.MinResponse, e.cfg.BinaryThreshold)
	return ex, nil
}

// SeamMask возвращает маску пикселей вне полосы фона-шва.
func SeamMask(tile gocv.Mat, seam entity.Band) gocv.Mat {
	keep := bandMask(tile, seam)
	gocv.BitwiseNot(keep, &keep)
	return keep
}

// MidToneTopHat оставляет пиксели средней полосы, оценивает фон открытием и вычитает его.
func MidToneTopHat(tile, keep gocv.Mat, band entity.Band, kernel gocv.Mat) gocv.Mat {
	inBand := bandMask(tile, band)
	defer inBand.Close()
	gocv.BitwiseAnd(inBand, keep, &inBand)

	restricted := maskedCopy(tile, inBand)
	defer restricted.Close()

	return openingTopHat(restricted, kernel)
}

// ShadowTopHat инвертирует тени, чтобы они стали пиками, и выделяет их тем же top-hat.
func ShadowTopHat(tile, keep gocv.Mat, band entity.Band, kernel gocv.Mat) gocv.Mat {
	inBand := bandMask(tile, band)
	defer inBand.Close()
	gocv.BitwiseAnd(inBand, keep, &inBand)

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(tile, &inverted)

	restricted := maskedCopy(inverted, inBand)
	defer restricted.Close()

	return openingTopHat(restricted, kernel)
}

// FrequencyDifference вычитает широкое размытие из узкого и обрезает отрицательные значения.
func FrequencyDifference(tile, keep gocv.Mat, narrowSigma, wideSigma float64) gocv.Mat {
	seamMasked := maskedCopy(tile, keep)
	defer seamMasked.Close()

	src := gocv.NewMat()
	defer src.Close()
	seamMasked.ConvertTo(&src, gocv.MatTypeCV32F)

	fine := gocv.NewMat()
	defer fine.Close()
	gocv.GaussianBlur(src, &fine, image.Pt(0, 0), narrowSigma, narrowSigma, gocv.BorderDefault)

	coarse := gocv.NewMat()
	defer coarse.Close()
	gocv.GaussianBlur(src, &coarse, image.Pt(0, 0), wideSigma, wideSigma, gocv.BorderDefault)

	dog := gocv.NewMat()
	gocv.Subtract(fine, coarse, &dog)
	gocv.Threshold(dog, &dog, 0, 0, gocv.ThresholdToZero)
	return dog
}

// Binarize нормирует слитый отклик в 0..255 и бинаризует его порогом threshold.
// Если пик отклика ниже floor, тайл считается пустым: нормировка раздула бы шум.
func Binarize(fused gocv.Mat, floor, threshold float64) gocv.Mat {
	mask := zeros(fused.Rows(), fused.Cols())

	_, peak, _, _ := gocv.MinMaxLoc(fused)
	if peak <= 0 || float64(peak) < floor {
		return mask
	}

	norm := gocv.NewMat()
	defer norm.Close()
	gocv.Normalize(fused, &norm, 0, 255, gocv.NormMinMax)

	norm8 := gocv.NewMat()
	defer norm8.Close()
	norm.ConvertTo(&norm8, gocv.MatTypeCV8U)

	gocv.Threshold(norm8, &mask, float32(threshold), 255, gocv.ThresholdBinary)
	return mask
}

// openingTopHat возвращает src минус его морфологическое открытие, в CV32F.
func openingTopHat(src, kernel gocv.Mat) gocv.Mat {
	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(src, &opened, gocv.MorphOpen, kernel)

	residual := gocv.NewMat()
	defer residual.Close()
	gocv.Subtract(src, opened, &residual)

	out := gocv.NewMat()
	residual.ConvertTo(&out, gocv.MatTypeCV32F)
	return out
}

func bandMask(src gocv.Mat, b entity.Band) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(src,
		gocv.NewScalar(float64(b.Min), 0, 0, 0),
		gocv.NewScalar(float64(b.Max), 0, 0, 0),
		&mask)
	return mask
}

// maskedCopy копирует src под маской, остальное заполняется нулями.
func maskedCopy(src, mask gocv.Mat) gocv.Mat {
	out := zeros(src.Rows(), src.Cols())
	src.CopyToWithMask(&out, mask)
	return out
}

func zeros(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}
