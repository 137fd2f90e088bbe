//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"surface-inspector/internal/domain/entity"
)

// gocvFactory переносит область в Mat один раз на проверку.
type gocvFactory struct{}

func (gocvFactory) Open(area *image.Gray, cfg entity.DetectionConfig) (AreaAnalyzer, error) {
	mat, err := gocv.ImageGrayToMatGray(area)
	if err != nil {
		return nil, fmt.Errorf("convert area: %w", err)
	}
	return &gocvAnalyzer{area: mat, extractor: NewDualToneExtractor(cfg)}, nil
}

// gocvAnalyzer читает тайлы как ROI общего Mat, без копирования.
type gocvAnalyzer struct {
	area      gocv.Mat
	extractor *DualToneExtractor
}

func (a *gocvAnalyzer) Candidates(t Tile) ([]Candidate, error) {
	view := a.area.Region(t.Rect())
	defer view.Close()

	ex, err := a.extractor.Extract(view)
	if err != nil {
		return nil, err
	}
	defer ex.Close()

	return FindCandidates(ex), nil
}

func (a *gocvAnalyzer) Close() error {
	return a.area.Close()
}

// FindCandidates извлекает внешние контуры маски и меряет их.
func FindCandidates(ex *Extraction) []Candidate {
	contours := gocv.FindContours(ex.Mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]Candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		rect := gocv.BoundingRect(c)
		out = append(out, Candidate{
			Rect:           rect,
			Area:           gocv.ContourArea(c),
			Perimeter:      gocv.ArcLength(c, true),
			DarkResponse:   sumIn(ex.MidTone, rect),
			BrightResponse: sumIn(ex.Shadow, rect),
		})
	}
	return out
}

func sumIn(m gocv.Mat, r image.Rectangle) float64 {
	sum := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += float64(m.GetFloatAt(y, x))
		}
	}
	return sum
}
