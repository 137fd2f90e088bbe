package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
)

func TestHighlightRect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	d := entity.Defect{X: 10, Y: 10, Width: 5, Height: 5}

	require.Equal(t, image.Rect(8, 8, 17, 17), HighlightRect(d, image.Point{}, 2, bounds))
	require.Equal(t, image.Rect(0, 0, 7, 7), HighlightRect(d, image.Pt(10, 10), 2, bounds))

	edge := entity.Defect{X: 97, Y: 97, Width: 5, Height: 5}
	require.Equal(t, image.Rect(95, 95, 100, 100), HighlightRect(edge, image.Point{}, 2, bounds))

	outside := entity.Defect{X: 200, Y: 200, Width: 5, Height: 5}
	require.True(t, HighlightRect(outside, image.Point{}, 2, bounds).Empty())
}

func TestDefectColor(t *testing.T) {
	require.Equal(t, color.RGBA{R: 255, A: 255}, DefectColor(entity.DefectDark))
	require.Equal(t, color.RGBA{B: 255, A: 255}, DefectColor(entity.DefectBright))
	require.Equal(t, color.RGBA{R: 255, G: 255, A: 255}, DefectColor(entity.DefectUnknown))
}
