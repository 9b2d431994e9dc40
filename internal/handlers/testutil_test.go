package handlers

import (
	"bytes"
	"context"
	"io"

	"github.com/cama-app/apiserver/internal/store"
)

// handlerMemBackend is an in-memory ObjectStorage for handler tests.
type handlerMemBackend struct {
	objects map[string][]byte
}

func newHandlerMemBackend() *handlerMemBackend {
	return &handlerMemBackend{objects: map[string][]byte{}}
}

func (m *handlerMemBackend) EnsureBucket(context.Context) error { return nil }

func (m *handlerMemBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *handlerMemBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *handlerMemBackend) Delete(_ context.Context, key string) error {
	if _, ok := m.objects[key]; !ok {
		return store.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *handlerMemBackend) Bucket() string { return "test" }
