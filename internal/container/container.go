package container

import (
	"github.com/rs/zerolog"

	app "surface-inspector/internal/application"
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

type Container struct {
	SessionService    *app.SessionService
	InspectionService *app.InspectionService
}

func New(
	sessionRepo port.SessionRepository,
	detector port.DefectDetector,
	codec port.ImageCodec,
	cfg entity.DetectionConfig,
	padding int,
	logger zerolog.Logger,
) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	inspectionService := app.NewInspectionService(sessionService, detector, codec, cfg, padding, logger)

	return &Container{
		SessionService:    sessionService,
		InspectionService: inspectionService,
	}
}
