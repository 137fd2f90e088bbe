package app

import (
	"context"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, sessionID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, sessionID)
}

// SetState меняет только состояние сессии, создавая её при первом обращении.
func (s *SessionService) SetState(ctx context.Context, sessionID int64, state entity.SessionState) (*entity.Session, error) {
	if _, err := s.repo.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, sessionID)
}

// AttachImage запоминает загруженное изображение и сбрасывает выбор дефекта.
func (s *SessionService) AttachImage(ctx context.Context, sessionID int64, path string) (*entity.Session, error) {
	return s.update(ctx, sessionID, func(session *entity.Session) {
		session.ImagePath = path
		session.Selected = entity.NoSelection
		session.SetState(entity.StateImageLoaded)
	})
}

// MarkInspected переводит сессию к готовому результату без выбранного дефекта.
func (s *SessionService) MarkInspected(ctx context.Context, sessionID int64) (*entity.Session, error) {
	return s.update(ctx, sessionID, func(session *entity.Session) {
		session.Selected = entity.NoSelection
		session.SetState(entity.StateInspected)
	})
}

// Select отмечает выбранный оператором дефект.
func (s *SessionService) Select(ctx context.Context, sessionID int64, index int) (*entity.Session, error) {
	return s.update(ctx, sessionID, func(session *entity.Session) {
		session.Selected = index
	})
}

// Reset возвращает сессию в исходное состояние.
func (s *SessionService) Reset(ctx context.Context, sessionID int64) (*entity.Session, error) {
	return s.update(ctx, sessionID, func(session *entity.Session) {
		session.Reset()
	})
}

func (s *SessionService) update(ctx context.Context, sessionID int64, apply func(*entity.Session)) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	apply(session)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
