package vision

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/infrastructure/storage"
)

// AreaAnalyzer извлекает кандидатов из тайлов одной области.
// Candidates вызывается одновременно из нескольких воркеров.
type AreaAnalyzer interface {
	Candidates(t Tile) ([]Candidate, error)
	Close() error
}

// AnalyzerFactory готовит анализатор для области, например переносит её в буфер OpenCV.
type AnalyzerFactory interface {
	Open(area *image.Gray, cfg entity.DetectionConfig) (AreaAnalyzer, error)
}

// Engine связывает профайлер, планировщик, фильтр и ремаппер вокруг экстрактора.
type Engine struct {
	factory AnalyzerFactory
}

// NewEngine создаёт движок поверх фабрики анализаторов.
func NewEngine(factory AnalyzerFactory) *Engine {
	return &Engine{factory: factory}
}

// Run выполняет проверку целиком. Нечитаемое или пустое изображение даёт пустой результат без ошибки.
func (e *Engine) Run(ctx context.Context, req entity.InspectionRequest) (*entity.InspectionResult, error) {
	logger := zerolog.Ctx(ctx)
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	region, err := req.Region()
	if errors.Is(err, entity.ErrEmptyImage) {
		logger.Warn().Msg("inspection skipped: empty image")
		return entity.EmptyResult(), nil
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	origin := req.Origin(region)
	area := compactRegion(req.Image, region)
	rows := NewScanlineProfiler(cfg.BoundaryJump).Profile(area, origin.Y)
	tiles := PlanTiles(area.Rect.Size(), cfg.TileSize, cfg.Stride)
	scheduler := NewPatchGridScheduler(cfg.Workers)

	logger.Debug().
		Int("tiles", len(tiles)).
		Int("full_tiles", FullTiles(tiles, cfg.TileSize)).
		Int("workers", scheduler.Workers()).
		Int("boundary_rows", rows.Len()).
		Msg("inspection started")

	analyzer, err := e.factory.Open(area, cfg)
	if err != nil {
		return nil, err
	}
	defer analyzer.Close()

	sink := storage.NewMemoryDefectCollection()
	remapper := NewCoordinateRemapper(origin, sink)
	filter := NewContourFilter(cfg, rows, origin.Y)

	err = scheduler.Run(tiles, func(r image.Rectangle) error {
		tile := NewTile(area, r)
		candidates, err := analyzer.Candidates(tile)
		if err != nil {
			return err
		}
		remapper.Append(tile.Origin, filter.Filter(candidates, tile))
		return nil
	})
	if err != nil {
		return nil, err
	}

	defects := sink.All()
	logger.Debug().
		Int("defects", len(defects)).
		Dur("elapsed", time.Since(start)).
		Msg("inspection finished")

	bounds := req.Image.Bounds()
	return &entity.InspectionResult{
		ImageWidth:   bounds.Dx(),
		ImageHeight:  bounds.Dy(),
		Defects:      defects,
		HasDefects:   len(defects) > 0,
		Tiles:        len(tiles),
		BoundaryRows: rows.Rows(),
	}, nil
}

// compactRegion возвращает область r изображения как плотный буфер с началом в (0,0).
// Если img уже такой и r совпадает с его границами, копирования нет.
func compactRegion(img *image.Gray, r image.Rectangle) *image.Gray {
	if r == img.Rect && r.Min == (image.Point{}) && img.Stride == r.Dx() {
		return img
	}
	size := r.Size()
	out := image.NewGray(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		copy(out.Pix[y*out.Stride:y*out.Stride+size.X], src[:size.X])
	}
	return out
}
