package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
)

type profileRepoMock struct {
	created []types.Profile
	nextID  int
	err     error
}

func (m *profileRepoMock) Create(_ context.Context, profile types.Profile) (types.Profile, error) {
	if m.err != nil {
		return types.Profile{}, m.err
	}
	m.nextID++
	profile.ID = m.nextID
	m.created = append(m.created, profile)
	return profile, nil
}

func (m *profileRepoMock) ExistsByUserID(_ context.Context, userID int) (bool, error) {
	for _, profile := range m.created {
		if profile.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *profileRepoMock) ListNames(_ context.Context) ([]store.ProfileName, error) {
	names := make([]store.ProfileName, 0, len(m.created))
	for _, profile := range m.created {
		names = append(names, store.ProfileName{UserID: profile.UserID, FullName: profile.FullName})
	}
	return names, nil
}

// memBackend is an in-memory ObjectStorage used across service tests.
type memBackend struct {
	objects map[string][]byte
	putErr  error
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}}
}

func (m *memBackend) EnsureBucket(context.Context) error { return nil }

func (m *memBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	if _, ok := m.objects[key]; !ok {
		return store.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memBackend) Bucket() string { return "test" }

func TestNormalizeDOB(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"25/12/1990", "1990-12-25"},
		{"01/02/2000", "2000-02-01"},
		{"1990-12-25", "1990-12-25"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDOB(c.in); got != c.want {
			t.Errorf("NormalizeDOB(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProfileCreateWithPicture(t *testing.T) {
	repo := &profileRepoMock{}
	backend := newMemBackend()
	service := NewProfileService(repo, storage.NewStorage(backend))

	created, err := service.Create(context.Background(), types.Profile{
		UserID:      7,
		FullName:    "Alice Watson",
		Email:       "alice@example.com",
		DateOfBirth: "25/12/1990",
		Gender:      "Female",
		PhoneNumber: "5550100",
	}, &PictureUpload{
		Filename:    "me.png",
		Data:        []byte("picture-bytes"),
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.DateOfBirth != "1990-12-25" {
		t.Fatalf("dob not normalized: %s", created.DateOfBirth)
	}
	if !strings.HasPrefix(created.ProfilePicture, "/uploads/") {
		t.Fatalf("picture path %q does not point at /uploads/", created.ProfilePicture)
	}
	if !strings.HasSuffix(created.ProfilePicture, ".png") {
		t.Fatalf("picture path %q lost the extension", created.ProfilePicture)
	}
	key := strings.TrimPrefix(created.ProfilePicture, "/uploads/")
	if string(backend.objects[key]) != "picture-bytes" {
		t.Fatal("picture bytes not stored under the recorded key")
	}
}

func TestProfileCreateWithoutPicture(t *testing.T) {
	repo := &profileRepoMock{}
	service := NewProfileService(repo, storage.NewStorage(newMemBackend()))

	created, err := service.Create(context.Background(), types.Profile{
		UserID:      8,
		FullName:    "Bob Stone",
		Email:       "bob@example.com",
		DateOfBirth: "01/01/1985",
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ProfilePicture != "" {
		t.Fatalf("unexpected picture path %q", created.ProfilePicture)
	}
}
