package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
)

type maintenanceRepoMock struct {
	requests  map[int]types.MaintenanceRequest
	media     map[int][]types.MediaAttachment
	nextID    int
	createErr error
}

func newMaintenanceRepoMock() *maintenanceRepoMock {
	return &maintenanceRepoMock{
		requests: map[int]types.MaintenanceRequest{},
		media:    map[int][]types.MediaAttachment{},
	}
}

func (m *maintenanceRepoMock) Create(_ context.Context, request types.MaintenanceRequest, media []types.MediaAttachment) (types.MaintenanceRequest, error) {
	if m.createErr != nil {
		return types.MaintenanceRequest{}, m.createErr
	}
	m.nextID++
	request.ID = m.nextID
	m.requests[request.ID] = request
	for i := range media {
		media[i].RequestID = request.ID
	}
	m.media[request.ID] = media
	return request, nil
}

func (m *maintenanceRepoMock) List(_ context.Context) ([]types.MaintenanceRequest, error) {
	requests := make([]types.MaintenanceRequest, 0, len(m.requests))
	for _, request := range m.requests {
		requests = append(requests, request)
	}
	return requests, nil
}

func (m *maintenanceRepoMock) ListMediaByRequest(_ context.Context, requestID int) ([]types.MediaAttachment, error) {
	return m.media[requestID], nil
}

func (m *maintenanceRepoMock) ListHighPriority(_ context.Context) ([]types.MaintenanceRequest, error) {
	var requests []types.MaintenanceRequest
	for _, request := range m.requests {
		if request.Priority == types.PriorityHigh {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (m *maintenanceRepoMock) UpdateStatus(_ context.Context, id int, status string) (types.MaintenanceRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return types.MaintenanceRequest{}, store.ErrNotFound
	}
	request.Status = status
	m.requests[id] = request
	return request, nil
}

// pngHeader is a minimal valid PNG signature plus IHDR start, enough
// for content sniffing to call it an image.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestMaintenanceCreate(t *testing.T) {
	repo := newMaintenanceRepoMock()
	backend := newMemBackend()
	service := NewMaintenanceService(repo, storage.NewStorage(backend), nil, "http://localhost:5000")

	created, err := service.Create(context.Background(), types.MaintenanceRequest{
		UserID:      3,
		Subject:     "Leaking tap",
		Description: "Kitchen tap drips constantly",
		Priority:    types.PriorityHigh,
		Status:      types.StatusCompleted, // caller-supplied status is ignored
	}, []MediaUpload{
		{Filename: "tap.png", Data: pngHeader, ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != types.StatusPending {
		t.Fatalf("new request should be Pending, got %s", created.Status)
	}
	if len(backend.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(backend.objects))
	}
	attachments := repo.media[created.ID]
	if len(attachments) != 1 {
		t.Fatalf("expected 1 attachment row, got %d", len(attachments))
	}
	if attachments[0].MediaType != types.MediaTypeImage {
		t.Fatalf("declared image classified as %s", attachments[0].MediaType)
	}
}

func TestMaintenanceCreateInvalidPriority(t *testing.T) {
	service := NewMaintenanceService(newMaintenanceRepoMock(), storage.NewStorage(newMemBackend()), nil, "")

	_, err := service.Create(context.Background(), types.MaintenanceRequest{
		UserID:      3,
		Subject:     "x",
		Description: "y",
		Priority:    "Urgent",
	}, nil)
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestMaintenanceCreateDiscardsOnRepoFailure(t *testing.T) {
	repo := newMaintenanceRepoMock()
	repo.createErr = errors.New("insert failed")
	backend := newMemBackend()
	service := NewMaintenanceService(repo, storage.NewStorage(backend), nil, "")

	_, err := service.Create(context.Background(), types.MaintenanceRequest{
		UserID:      3,
		Subject:     "x",
		Description: "y",
		Priority:    types.PriorityLow,
	}, []MediaUpload{
		{Filename: "a.png", Data: pngHeader, ContentType: "image/png"},
	})
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if len(backend.objects) != 0 {
		t.Fatalf("stored objects not discarded after failed insert: %d left", len(backend.objects))
	}
}

func TestMaintenanceListRewritesMedia(t *testing.T) {
	repo := newMaintenanceRepoMock()
	backend := newMemBackend()
	service := NewMaintenanceService(repo, storage.NewStorage(backend), nil, "http://localhost:5000")

	// Declared types deliberately lie; the listing must re-derive each
	// label from the stored bytes.
	created, err := service.Create(context.Background(), types.MaintenanceRequest{
		UserID:      3,
		Subject:     "Broken light",
		Description: "Hallway light flickers",
		Priority:    types.PriorityMedium,
	}, []MediaUpload{
		{Filename: "light.png", Data: pngHeader, ContentType: "video/mp4"},
		{Filename: "clip.mp4", Data: pngHeader, ContentType: "image/png"},
		{Filename: "junk.bin", Data: []byte{0x00, 0x01, 0x02}, ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected listing: %+v", listed)
	}
	media := listed[0].Media
	if len(media) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(media))
	}
	want := []string{types.MediaTypeImage, types.MediaTypeImage, types.MediaTypeUnknown}
	const prefix = "http://localhost:5000/uploads/"
	for i := range media {
		if media[i].MediaType != want[i] {
			t.Fatalf("attachment %d sniffed as %s, want %s", i, media[i].MediaType, want[i])
		}
		if !strings.HasPrefix(media[i].MediaURL, prefix) {
			t.Fatalf("media URL %q not rewritten to absolute form", media[i].MediaURL)
		}
	}
}

func TestMaintenanceUpdateStatus(t *testing.T) {
	repo := newMaintenanceRepoMock()
	service := NewMaintenanceService(repo, storage.NewStorage(newMemBackend()), nil, "")

	created, err := service.Create(context.Background(), types.MaintenanceRequest{
		UserID:      3,
		Subject:     "x",
		Description: "y",
		Priority:    types.PriorityLow,
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Any of the four statuses is reachable from any other.
	updated, err := service.UpdateStatus(context.Background(), created.ID, types.StatusCompleted)
	if err != nil {
		t.Fatalf("update to Completed: %v", err)
	}
	if updated.Status != types.StatusCompleted {
		t.Fatalf("status = %s", updated.Status)
	}

	updated, err = service.UpdateStatus(context.Background(), created.ID, types.StatusPending)
	if err != nil {
		t.Fatalf("update back to Pending: %v", err)
	}
	if updated.Status != types.StatusPending {
		t.Fatalf("status = %s", updated.Status)
	}

	if _, err := service.UpdateStatus(context.Background(), created.ID, "Done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), 9999, types.StatusCompleted); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
