package services

import (
	"context"

	"github.com/cama-app/apiserver/types"
)

// RentalRepository defines persistence operations for rental agreements.
type RentalRepository interface {
	GetByUserID(ctx context.Context, userID int) (types.RentalAgreement, error)
	Update(ctx context.Context, agreement types.RentalAgreement) (types.RentalAgreement, error)
}

// SecurityLogRepository reads gate/security events.
type SecurityLogRepository interface {
	List(ctx context.Context) ([]types.SecurityLog, error)
}

// RentalService encapsulates rental-agreement use-cases.
type RentalService struct {
	repo RentalRepository
}

func NewRentalService(repo RentalRepository) *RentalService {
	return &RentalService{repo: repo}
}

func (s *RentalService) GetByUserID(ctx context.Context, userID int) (types.RentalAgreement, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *RentalService) Update(ctx context.Context, agreement types.RentalAgreement) (types.RentalAgreement, error) {
	return s.repo.Update(ctx, agreement)
}

// SecurityLogService exposes the read-only security feed.
type SecurityLogService struct {
	repo SecurityLogRepository
}

func NewSecurityLogService(repo SecurityLogRepository) *SecurityLogService {
	return &SecurityLogService{repo: repo}
}

func (s *SecurityLogService) List(ctx context.Context) ([]types.SecurityLog, error) {
	return s.repo.List(ctx)
}
