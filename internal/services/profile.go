package services

import (
	"context"
	"strings"

	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile types.Profile) (types.Profile, error)
	ExistsByUserID(ctx context.Context, userID int) (bool, error)
	ListNames(ctx context.Context) ([]store.ProfileName, error)
}

// ProfileService encapsulates onboarding use-cases.
type ProfileService struct {
	repo    ProfileRepository
	storage *storage.Storage
}

func NewProfileService(repo ProfileRepository, st *storage.Storage) *ProfileService {
	return &ProfileService{
		repo:    repo,
		storage: st,
	}
}

// PictureUpload carries an optional profile picture.
type PictureUpload struct {
	Filename    string
	Data        []byte
	ContentType string
}

// Create persists the profile, normalizing the date of birth from the
// DD/MM/YYYY display format and storing the optional picture through
// the media storage backend.
func (s *ProfileService) Create(ctx context.Context, profile types.Profile, picture *PictureUpload) (types.Profile, error) {
	profile.DateOfBirth = NormalizeDOB(profile.DateOfBirth)

	if picture != nil {
		key, err := s.storage.SaveUpload(ctx, picture.Filename, picture.Data, picture.ContentType)
		if err != nil {
			return types.Profile{}, err
		}
		profile.ProfilePicture = "/uploads/" + key
	}

	return s.repo.Create(ctx, profile)
}

func (s *ProfileService) ListNames(ctx context.Context) ([]store.ProfileName, error) {
	return s.repo.ListNames(ctx)
}

// NormalizeDOB converts DD/MM/YYYY to YYYY-MM-DD by reversing the
// slash-separated segments. Callers validate the format upstream;
// inputs without exactly two slashes come back reversed as-is.
func NormalizeDOB(dob string) string {
	parts := strings.Split(dob, "/")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-")
}
