//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"surface-inspector/internal/domain/entity"
)

func toMat(t *testing.T, img *image.Gray) gocv.Mat {
	t.Helper()
	mat, err := gocv.ImageGrayToMatGray(img)
	require.NoError(t, err)
	return mat
}

func testKernel() gocv.Mat {
	cfg := entity.DefaultDetectionConfig()
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(cfg.KernelSize, cfg.KernelSize))
}

func TestSeamMask(t *testing.T) {
	img := filledGray(16, 16, 150)
	fillRect(img, image.Rect(4, 4, 8, 8), 30)
	tile := toMat(t, img)
	defer tile.Close()

	keep := SeamMask(tile, entity.Band{Min: 150, Max: 200})
	defer keep.Close()

	require.Equal(t, uint8(0), keep.GetUCharAt(0, 0), "seam pixel must be masked out")
	require.Equal(t, uint8(255), keep.GetUCharAt(5, 5))
}

func TestMidToneTopHat(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	spot := image.Rect(10, 10, 13, 13)

	cases := []struct {
		name       string
		background uint8
		spot       uint8
		want       float64
	}{
		{"small peak in mid band", 90, 120, 30},
		{"peak inside seam band is ignored", 90, 180, 0},
		{"flat mid tone", 90, 90, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img := filledGray(32, 32, tc.background)
			fillRect(img, spot, tc.spot)
			tile := toMat(t, img)
			defer tile.Close()
			keep := SeamMask(tile, cfg.SeamBand)
			defer keep.Close()
			kernel := testKernel()
			defer kernel.Close()

			resp := MidToneTopHat(tile, keep, cfg.MidToneBand, kernel)
			defer resp.Close()

			require.InDelta(t, tc.want, resp.GetFloatAt(11, 11), 0.5)
			require.InDelta(t, 0, resp.GetFloatAt(0, 0), 0.5)
			_, peak, _, _ := gocv.MinMaxLoc(resp)
			require.InDelta(t, tc.want, float64(peak), 0.5)
		})
	}
}

func TestShadowTopHat(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	spot := image.Rect(10, 10, 13, 13)

	cases := []struct {
		name       string
		background uint8
		spot       uint8
		want       float64
	}{
		{"dark spot smaller than kernel", 60, 10, 50},
		{"brighter spot in shadows", 60, 70, 0},
		{"flat shadow", 60, 60, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img := filledGray(32, 32, tc.background)
			fillRect(img, spot, tc.spot)
			tile := toMat(t, img)
			defer tile.Close()
			keep := SeamMask(tile, cfg.SeamBand)
			defer keep.Close()
			kernel := testKernel()
			defer kernel.Close()

			resp := ShadowTopHat(tile, keep, cfg.ShadowBand, kernel)
			defer resp.Close()

			require.InDelta(t, tc.want, resp.GetFloatAt(11, 11), 0.5)
			require.InDelta(t, 0, resp.GetFloatAt(0, 0), 0.5)
		})
	}
}

func TestFrequencyDifference_NeverNegative(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		fillRect(img, image.Rect(0, y, 64, y+1), uint8(y*3))
	}
	checker(img, image.Rect(20, 20, 40, 40), 10, 240)
	fillRect(img, image.Rect(45, 5, 55, 15), 0)

	tile := toMat(t, img)
	defer tile.Close()
	keep := SeamMask(tile, cfg.SeamBand)
	defer keep.Close()

	dog := FrequencyDifference(tile, keep, cfg.NarrowSigma, cfg.WideSigma)
	defer dog.Close()

	low, high, _, _ := gocv.MinMaxLoc(dog)
	require.GreaterOrEqual(t, low, float32(0))
	require.Greater(t, high, float32(0))
}

func TestFrequencyDifference_SeamOnlyTileIsSilent(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	img := filledGray(32, 32, 170)
	fillRect(img, image.Rect(10, 10, 14, 14), 190)
	tile := toMat(t, img)
	defer tile.Close()
	keep := SeamMask(tile, cfg.SeamBand)
	defer keep.Close()

	dog := FrequencyDifference(tile, keep, cfg.NarrowSigma, cfg.WideSigma)
	defer dog.Close()

	require.Zero(t, gocv.CountNonZero(dog))
}

func TestFindCandidates_ShadowResponseTagsBright(t *testing.T) {
	img := filledGray(64, 64, 60)
	fillRect(img, image.Rect(30, 30, 33, 33), 10)
	tile := toMat(t, img)
	defer tile.Close()

	ex, err := NewDualToneExtractor(entity.DefaultDetectionConfig()).Extract(tile)
	require.NoError(t, err)
	defer ex.Close()

	var found *Candidate
	for _, c := range FindCandidates(ex) {
		if image.Pt(31, 31).In(c.Rect) {
			c := c
			found = &c
		}
	}
	require.NotNil(t, found, "spot must produce a contour")
	require.Greater(t, found.BrightResponse, 0.0)
	require.Zero(t, found.DarkResponse)

	mean, _ := regionStats(wholeTile(img), found.Rect)
	require.Equal(t, entity.DefectBright, resolveType(*found, wholeTile(img), 3, mean))
}

func TestGoCVDetector_SuppressesSeamCrossingDefect(t *testing.T) {
	img := filledGray(256, 512, 150)
	fillRect(img, image.Rect(40, 40, 50, 50), 30)
	fillRect(img, image.Rect(0, 384, 256, 512), 110)
	fillRect(img, image.Rect(100, 379, 110, 389), 30)

	res, err := NewGoCVDetector().Inspect(context.Background(), entity.InspectionRequest{
		Image:  img,
		Config: entity.DefaultDetectionConfig(),
	})

	require.NoError(t, err)
	require.Equal(t, []int{384}, res.BoundaryRows)

	control := false
	for _, d := range res.Defects {
		if d.Type != entity.DefectBright {
			require.False(t, d.Y <= 384 && d.Y+d.Height >= 384, "defect %v crosses the seam", d.Rect())
		}
		if d.Type == entity.DefectDark && absInt(d.X-40) <= 1 && absInt(d.Y-40) <= 1 {
			control = true
		}
	}
	require.True(t, control, "square away from the seam must still be found: %v", res.Defects)
}

func TestGoCVDetector_ExcludesBorderDefects(t *testing.T) {
	img := filledGray(256, 256, 150)
	fillRect(img, image.Rect(1, 100, 11, 110), 30)
	fillRect(img, image.Rect(123, 40, 133, 50), 30)
	cfg := entity.DefaultDetectionConfig()
	cfg.TileSize, cfg.Stride = 128, 128

	res, err := NewGoCVDetector().Inspect(context.Background(), entity.InspectionRequest{Image: img, Config: cfg})

	require.NoError(t, err)
	require.Empty(t, res.Defects)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
