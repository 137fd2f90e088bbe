package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// DefaultPreviewPadding отступ вокруг дефекта в превью, пиксели
const DefaultPreviewPadding = 100

var (
	ErrDetectorNotConfigured = errors.New("detector is not configured")
	ErrImageNotLoaded        = errors.New("image is not loaded")
	ErrResultNotReady        = errors.New("inspection result is not ready")
	ErrDefectNotFound        = errors.New("defect is not found")
)

// InspectionOptions параметры одного запуска поверх конфигурации сервиса.
type InspectionOptions struct {
	Crop      *image.Rectangle // nil: всё изображение
	Offset    *image.Point     // nil: левый верхний угол Crop
	Threshold *float64         // nil: порог из конфигурации
}

// InspectionOutput содержит результат поиска дефектов и картинку с подсветкой.
type InspectionOutput struct {
	Result    *entity.InspectionResult
	Annotated image.Image // nil, если дефектов нет или подсветка не удалась
}

// inspection последний результат сессии. shift переводит координаты дефектов в координаты изображения.
type inspection struct {
	result *entity.InspectionResult
	shift  image.Point
}

type InspectionService struct {
	sessions       *SessionService
	detector       port.DefectDetector
	codec          port.ImageCodec
	config         entity.DetectionConfig
	padding        int
	previewPadding int
	logger         zerolog.Logger

	mu      sync.RWMutex
	images  map[int64]*image.Gray
	results map[int64]inspection
}

// NewInspectionService создаёт сервис, который управляет проверкой дефектов.
func NewInspectionService(
	sessions *SessionService,
	detector port.DefectDetector,
	codec port.ImageCodec,
	config entity.DetectionConfig,
	padding int,
	logger zerolog.Logger,
) *InspectionService {
	return &InspectionService{
		sessions:       sessions,
		detector:       detector,
		codec:          codec,
		config:         config,
		padding:        padding,
		previewPadding: DefaultPreviewPadding,
		logger:         logger,
		images:         make(map[int64]*image.Gray),
		results:        make(map[int64]inspection),
	}
}

// LoadImage читает изображение в сессию. Предыдущий результат сессии сбрасывается.
func (s *InspectionService) LoadImage(ctx context.Context, sessionID int64, path string) (*entity.Session, error) {
	if s.codec == nil {
		return nil, errors.New("image codec is not configured")
	}
	img, err := s.codec.Load(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.images[sessionID] = img
	delete(s.results, sessionID)
	s.mu.Unlock()

	return s.sessions.AttachImage(ctx, sessionID, path)
}

// Inspect запускает детектор на изображении сессии и возвращает результат с подсветкой.
func (s *InspectionService) Inspect(ctx context.Context, sessionID int64, opts InspectionOptions) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, ErrDetectorNotConfigured
	}

	s.mu.RLock()
	img, ok := s.images[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrImageNotLoaded
	}

	req := s.request(img, opts)
	shift := req.Offset
	if req.Crop != nil {
		shift = shift.Sub(req.Crop.Min)
	}

	if _, err := s.sessions.SetState(ctx, sessionID, entity.StateInspecting); err != nil {
		return nil, err
	}

	result, err := s.detector.Inspect(s.logger.WithContext(ctx), req)
	if err != nil {
		if _, serr := s.sessions.SetState(ctx, sessionID, entity.StateImageLoaded); serr != nil {
			s.logger.Error().Err(serr).Int64("session", sessionID).Msg("restore session state")
		}
		return nil, err
	}

	var annotated image.Image
	if result.HasDefects {
		annotated, err = s.detector.HighlightDefects(img, shiftResult(result, shift.Mul(-1)), s.padding)
		if err != nil {
			s.logger.Warn().Err(err).Int64("session", sessionID).Msg("highlight defects")
			annotated = nil
		}
	}

	s.mu.Lock()
	s.results[sessionID] = inspection{result: result, shift: shift}
	s.mu.Unlock()

	if _, err := s.sessions.MarkInspected(ctx, sessionID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("session", sessionID).
		Int("defects", len(result.Defects)).
		Int("tiles", result.Tiles).
		Msg("inspection done")

	return &InspectionOutput{Result: result, Annotated: annotated}, nil
}

// InspectFile загружает изображение и проверяет его.
// Нечитаемый файл не считается ошибкой: сессия сбрасывается, возвращается пустой результат без подсветки.
func (s *InspectionService) InspectFile(ctx context.Context, sessionID int64, path string, opts InspectionOptions) (*InspectionOutput, error) {
	if _, err := s.LoadImage(ctx, sessionID, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("image is not readable, skipping inspection")
		if rerr := s.Release(ctx, sessionID); rerr != nil {
			return nil, rerr
		}
		return &InspectionOutput{Result: entity.EmptyResult()}, nil
	}
	return s.Inspect(ctx, sessionID, opts)
}

// Release забывает изображение и результат сессии и сбрасывает её состояние.
func (s *InspectionService) Release(ctx context.Context, sessionID int64) error {
	s.mu.Lock()
	delete(s.images, sessionID)
	delete(s.results, sessionID)
	s.mu.Unlock()

	_, err := s.sessions.Reset(ctx, sessionID)
	return err
}

// SelectDefect отмечает дефект по индексу в последнем результате и возвращает его превью:
// область вокруг дефекта с отступом previewPadding, обрезанную по изображению.
func (s *InspectionService) SelectDefect(ctx context.Context, sessionID int64, index int) (image.Image, entity.Defect, error) {
	s.mu.RLock()
	img, hasImage := s.images[sessionID]
	last, hasResult := s.results[sessionID]
	s.mu.RUnlock()

	if !hasImage {
		return nil, entity.Defect{}, ErrImageNotLoaded
	}
	if !hasResult {
		return nil, entity.Defect{}, ErrResultNotReady
	}
	if index < 0 || index >= len(last.result.Defects) {
		return nil, entity.Defect{}, fmt.Errorf("%w: index %d of %d", ErrDefectNotFound, index, len(last.result.Defects))
	}

	defect := last.result.Defects[index]
	area := defect.Rect().Sub(last.shift).Inset(-s.previewPadding).Intersect(img.Bounds())

	if _, err := s.sessions.Select(ctx, sessionID, index); err != nil {
		return nil, entity.Defect{}, err
	}
	return s.codec.Crop(img, area), defect, nil
}

func (s *InspectionService) request(img *image.Gray, opts InspectionOptions) entity.InspectionRequest {
	cfg := s.config
	if opts.Threshold != nil {
		cfg = cfg.WithThreshold(*opts.Threshold)
	}

	req := entity.InspectionRequest{Image: img, Config: cfg, Crop: opts.Crop}
	switch {
	case opts.Offset != nil:
		req.Offset = *opts.Offset
	case opts.Crop != nil:
		req.Offset = opts.Crop.Min
	}
	return req
}

// shiftResult возвращает копию результата с дефектами, сдвинутыми на delta.
func shiftResult(result *entity.InspectionResult, delta image.Point) *entity.InspectionResult {
	if delta == (image.Point{}) {
		return result
	}
	out := *result
	out.Defects = make([]entity.Defect, len(result.Defects))
	for i, d := range result.Defects {
		d.X += delta.X
		d.Y += delta.Y
		out.Defects[i] = d
	}
	return &out
}
