package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("INSPECT_IMAGE", "/data/sheet.png")
	t.Setenv("INSPECT_OUTPUT", "/data/out.png")
	t.Setenv("REPORT_FORMAT", "json")
	t.Setenv("INSPECT_WORKERS", "6")
	t.Setenv("RENDER_PADDING", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/data/sheet.png", cfg.ImagePath)
	require.Equal(t, "/data/out.png", cfg.OutputPath)
	require.Equal(t, "json", cfg.ReportFormat)
	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, 8, cfg.Padding)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REPORT_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("INSPECT_WORKERS", "")
	t.Setenv("RENDER_PADDING", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "table", cfg.ReportFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Zero(t, cfg.Workers)
	require.Equal(t, DefaultPadding, cfg.Padding)
}

func TestLoad_BadWorkers(t *testing.T) {
	t.Setenv("INSPECT_WORKERS", "many")

	_, err := Load()
	require.ErrorContains(t, err, "INSPECT_WORKERS")
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDetection_EmptyPath(t *testing.T) {
	cfg, err := LoadDetection("")
	require.NoError(t, err)
	require.Equal(t, entity.DefaultDetectionConfig(), cfg)
}

func TestLoadDetection_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
tile_size: 128
stride: 128
binary_threshold: 25
seam_band: {min: 140, max: 210}
`)

	cfg, err := LoadDetection(path)
	require.NoError(t, err)

	want := entity.DefaultDetectionConfig()
	want.TileSize, want.Stride = 128, 128
	want.BinaryThreshold = 25
	want.SeamBand = entity.Band{Min: 140, Max: 210}
	require.Equal(t, want, cfg)
}

func TestLoadDetection_EmptyFile(t *testing.T) {
	cfg, err := LoadDetection(writeFile(t, ""))
	require.NoError(t, err)
	require.Equal(t, entity.DefaultDetectionConfig(), cfg)
}

func TestLoadDetection_UnknownField(t *testing.T) {
	_, err := LoadDetection(writeFile(t, "tile_sise: 128\n"))
	require.ErrorContains(t, err, "tile_sise")
}

func TestLoadDetection_Invalid(t *testing.T) {
	_, err := LoadDetection(writeFile(t, "stride: 64\n"))
	require.ErrorIs(t, err, entity.ErrInvalidConfig)
	require.ErrorIs(t, err, entity.ErrOverlappingStride)
}

func TestLoadDetection_MissingFile(t *testing.T) {
	_, err := LoadDetection(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("10, 20,30,40")
	require.NoError(t, err)
	require.Equal(t, image.Rect(10, 20, 40, 60), r)

	_, err = ParseRect("10,20,30")
	require.Error(t, err)
	_, err = ParseRect("10,20,0,40")
	require.Error(t, err)
	_, err = ParseRect("a,b,c,d")
	require.Error(t, err)
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("-5,7")
	require.NoError(t, err)
	require.Equal(t, image.Pt(-5, 7), p)

	_, err = ParsePoint("5")
	require.Error(t, err)
}

func TestLoadDetection_ExampleMatchesDefaults(t *testing.T) {
	cfg, err := LoadDetection("detection.example.yaml")
	require.NoError(t, err)
	require.Equal(t, entity.DefaultDetectionConfig(), cfg)
}
