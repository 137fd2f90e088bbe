package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectionRequestRegion(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 80))

	region, err := InspectionRequest{Image: img}.Region()
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), region)

	crop := image.Rect(10, 10, 60, 50)
	region, err = InspectionRequest{Image: img, Crop: &crop}.Region()
	require.NoError(t, err)
	require.Equal(t, crop, region)
}

func TestInspectionRequestRegion_CropOutOfBounds(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 80))
	crop := image.Rect(50, 50, 120, 70)

	_, err := InspectionRequest{Image: img, Crop: &crop}.Region()
	require.ErrorIs(t, err, ErrCropOutOfBounds)

	empty := image.Rect(10, 10, 10, 20)
	_, err = InspectionRequest{Image: img, Crop: &empty}.Region()
	require.ErrorIs(t, err, ErrCropOutOfBounds)
}

func TestInspectionRequestRegion_EmptyImage(t *testing.T) {
	_, err := InspectionRequest{}.Region()
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestInspectionResultCountByType(t *testing.T) {
	r := &InspectionResult{Defects: []Defect{
		{Type: DefectDark}, {Type: DefectDark}, {Type: DefectBright},
	}}
	counts := r.CountByType()
	require.Equal(t, 2, counts[DefectDark])
	require.Equal(t, 1, counts[DefectBright])
	require.Zero(t, counts[DefectUnknown])
}

func TestInspectionRequestOrigin(t *testing.T) {
	full := image.NewGray(image.Rect(0, 0, 512, 512))
	sub := full.SubImage(image.Rect(256, 256, 512, 512)).(*image.Gray)

	req := InspectionRequest{Image: sub}
	region, err := req.Region()
	require.NoError(t, err)
	require.Equal(t, image.Pt(256, 256), req.Origin(region))

	req.Offset = image.Pt(10, 0)
	require.Equal(t, image.Pt(266, 256), req.Origin(region))

	crop := image.Rect(300, 300, 400, 400)
	req = InspectionRequest{Image: sub, Crop: &crop, Offset: crop.Min}
	region, err = req.Region()
	require.NoError(t, err)
	require.Equal(t, crop.Min, req.Origin(region))
}
