package services

import (
	"context"
	"errors"
	"log"

	"github.com/cama-app/apiserver/internal/media"
	"github.com/cama-app/apiserver/internal/mq"
	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/types"
)

// ErrInvalidStatus is returned when a status update names a value
// outside the four-state set.
var ErrInvalidStatus = errors.New("invalid status")

// ErrInvalidPriority is returned when a new request carries an unknown
// priority.
var ErrInvalidPriority = errors.New("invalid priority")

// MaintenanceRepository defines persistence operations for maintenance
// requests and their media.
type MaintenanceRepository interface {
	Create(ctx context.Context, request types.MaintenanceRequest, media []types.MediaAttachment) (types.MaintenanceRequest, error)
	List(ctx context.Context) ([]types.MaintenanceRequest, error)
	ListMediaByRequest(ctx context.Context, requestID int) ([]types.MediaAttachment, error)
	ListHighPriority(ctx context.Context) ([]types.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id int, status string) (types.MaintenanceRequest, error)
}

// MediaUpload carries one uploaded attachment.
type MediaUpload struct {
	Filename    string
	Data        []byte
	ContentType string
}

// MaintenanceService encapsulates the request lifecycle: creation with
// attached media, listing with read-time content sniffing, and status
// updates.
type MaintenanceService struct {
	repo          MaintenanceRepository
	storage       *storage.Storage
	events        *mq.MQ
	publicBaseURL string
}

// NewMaintenanceService constructs the service; events may be nil when
// no broker is configured.
func NewMaintenanceService(repo MaintenanceRepository, st *storage.Storage, events *mq.MQ, publicBaseURL string) *MaintenanceService {
	return &MaintenanceService{
		repo:          repo,
		storage:       st,
		events:        events,
		publicBaseURL: publicBaseURL,
	}
}

// Create stores the uploaded files, then inserts the request row and
// all media rows in one transaction. The declared upload MIME decides
// only the coarse write-time label; reads re-sniff the bytes.
func (s *MaintenanceService) Create(ctx context.Context, request types.MaintenanceRequest, uploads []MediaUpload) (types.MaintenanceRequest, error) {
	if !types.ValidPriority(request.Priority) {
		return types.MaintenanceRequest{}, ErrInvalidPriority
	}
	request.Status = types.StatusPending

	attachments := make([]types.MediaAttachment, 0, len(uploads))
	saved := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key, err := s.storage.SaveUpload(ctx, upload.Filename, upload.Data, upload.ContentType)
		if err != nil {
			s.discard(ctx, saved)
			return types.MaintenanceRequest{}, err
		}
		saved = append(saved, key)
		attachments = append(attachments, types.MediaAttachment{
			MediaURL:  key,
			MediaType: media.ClassifyDeclared(upload.ContentType),
		})
	}

	created, err := s.repo.Create(ctx, request, attachments)
	if err != nil {
		s.discard(ctx, saved)
		return types.MaintenanceRequest{}, err
	}
	return created, nil
}

// List returns every request with its media. Each attachment's type is
// re-derived by sniffing the stored bytes, and its URL is rewritten to
// an absolute form. A missing or unreadable file degrades that item to
// Unknown without failing the whole listing.
func (s *MaintenanceService) List(ctx context.Context) ([]types.MaintenanceRequest, error) {
	requests, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range requests {
		attachments, err := s.repo.ListMediaByRequest(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range attachments {
			attachments[j].MediaType = s.sniff(ctx, attachments[j].MediaURL)
			attachments[j].MediaURL = s.publicBaseURL + "/uploads/" + attachments[j].MediaURL
		}
		requests[i].Media = attachments
	}
	return requests, nil
}

func (s *MaintenanceService) HighPriority(ctx context.Context) ([]types.MaintenanceRequest, error) {
	return s.repo.ListHighPriority(ctx)
}

// UpdateStatus sets the request status. Any of the four values is
// accepted regardless of the current status. A status-changed event is
// published best-effort.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id int, status string) (types.MaintenanceRequest, error) {
	if !types.ValidStatus(status) {
		return types.MaintenanceRequest{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return types.MaintenanceRequest{}, err
	}

	if s.events != nil {
		if _, err := s.events.PublishJSON(ctx, mq.ChannelMaintenanceStatusChanged, updated); err != nil {
			log.Printf("publish maintenance event: %v", err)
		}
	}
	return updated, nil
}

func (s *MaintenanceService) sniff(ctx context.Context, key string) string {
	reader, err := s.storage.Get(ctx, key)
	if err != nil {
		log.Printf("read media %s: %v", key, err)
		return types.MediaTypeUnknown
	}
	defer reader.Close()
	return media.ClassifyReader(reader)
}

// discard removes already-stored objects after a failed create.
func (s *MaintenanceService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Printf("discard media %s: %v", key, err)
		}
	}
}
