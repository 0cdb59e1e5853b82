// Package memory keeps uploaded objects in process memory. It backs local
// development and tests; objects are lost on restart.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/KartikVerma96/paregrose/internal/storage"
)

type object struct {
	contentType string
	data        []byte
}

// Storage implements storage.Storage with a map guarded by a RWMutex.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New returns an empty store whose URLs are baseURL + "/media/" + key.
func New(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]object),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", input.Key, err)
	}

	s.mu.Lock()
	s.objects[input.Key] = object{contentType: input.ContentType, data: data}
	s.mu.Unlock()

	return &storage.UploadResult{Key: input.Key, URL: s.URL(input.Key)}, nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Storage) URL(key string) string {
	return s.baseURL + "/media/" + key
}

// Len reports how many objects are stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// ServeHTTP serves stored objects. It expects to be mounted with the
// "/media" prefix stripped.
func (s *Storage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, key, time.Time{}, bytes.NewReader(obj.data))
}
