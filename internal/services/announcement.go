package services

import (
	"context"
	"log"

	"github.com/cama-app/apiserver/internal/mq"
	"github.com/cama-app/apiserver/types"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	List(ctx context.Context) ([]types.Announcement, error)
	Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error)
	Update(ctx context.Context, announcement types.Announcement) (types.Announcement, error)
	Delete(ctx context.Context, id int) error
}

// AnnouncementService encapsulates announcement use-cases.
type AnnouncementService struct {
	repo   AnnouncementRepository
	events *mq.MQ
}

// NewAnnouncementService constructs the service; events may be nil
// when no broker is configured.
func NewAnnouncementService(repo AnnouncementRepository, events *mq.MQ) *AnnouncementService {
	return &AnnouncementService{
		repo:   repo,
		events: events,
	}
}

func (s *AnnouncementService) List(ctx context.Context) ([]types.Announcement, error) {
	return s.repo.List(ctx)
}

// Create stores the announcement and publishes a notification event
// best-effort; a broker failure never fails the request.
func (s *AnnouncementService) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	created, err := s.repo.Create(ctx, announcement)
	if err != nil {
		return types.Announcement{}, err
	}

	if s.events != nil {
		if _, err := s.events.PublishJSON(ctx, mq.ChannelAnnouncementCreated, created); err != nil {
			log.Printf("publish announcement event: %v", err)
		}
	}
	return created, nil
}

func (s *AnnouncementService) Update(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	return s.repo.Update(ctx, announcement)
}

func (s *AnnouncementService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
