package services

import (
	"context"

	"github.com/cama-app/apiserver/types"
)

// ResidentRepository defines persistence operations for residents.
type ResidentRepository interface {
	List(ctx context.Context) ([]types.Resident, error)
	Create(ctx context.Context, resident types.Resident) (types.Resident, error)
	DeleteByUserID(ctx context.Context, userID int) error
	GetNameByUserID(ctx context.Context, userID int) (string, error)
}

// FamilyRepository defines persistence operations for family members.
type FamilyRepository interface {
	Create(ctx context.Context, member types.FamilyMember) (types.FamilyMember, error)
	ListByResident(ctx context.Context, residentID int) ([]types.FamilyMember, error)
	Delete(ctx context.Context, memberID int) error
}

// ResidentService encapsulates resident use-cases.
type ResidentService struct {
	repo ResidentRepository
}

func NewResidentService(repo ResidentRepository) *ResidentService {
	return &ResidentService{repo: repo}
}

func (s *ResidentService) List(ctx context.Context) ([]types.Resident, error) {
	return s.repo.List(ctx)
}

func (s *ResidentService) Create(ctx context.Context, resident types.Resident) (types.Resident, error) {
	return s.repo.Create(ctx, resident)
}

func (s *ResidentService) DeleteByUserID(ctx context.Context, userID int) error {
	return s.repo.DeleteByUserID(ctx, userID)
}

func (s *ResidentService) GetNameByUserID(ctx context.Context, userID int) (string, error) {
	return s.repo.GetNameByUserID(ctx, userID)
}

// FamilyService encapsulates family-member use-cases.
type FamilyService struct {
	repo FamilyRepository
}

func NewFamilyService(repo FamilyRepository) *FamilyService {
	return &FamilyService{repo: repo}
}

func (s *FamilyService) Add(ctx context.Context, member types.FamilyMember) (types.FamilyMember, error) {
	return s.repo.Create(ctx, member)
}

func (s *FamilyService) ListByResident(ctx context.Context, residentID int) ([]types.FamilyMember, error) {
	return s.repo.ListByResident(ctx, residentID)
}

func (s *FamilyService) Remove(ctx context.Context, memberID int) error {
	return s.repo.Delete(ctx, memberID)
}
