package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the reference clock, for deterministic validation in tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.NotificationPreference == "" {
		p.NotificationPreference = PreferenceNone
	}
	if err := p.Validate(s.now()); err != nil {
		return fmt.Errorf("invalid patient: %w", err)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.NotificationPreference == "" {
		p.NotificationPreference = PreferenceNone
	}
	if err := p.Validate(s.now()); err != nil {
		return fmt.Errorf("invalid patient: %w", err)
	}
	p.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Snapshot returns the full registry in stable insertion order.
func (s *Service) Snapshot(ctx context.Context) ([]*Patient, error) {
	return s.repo.All(ctx)
}
