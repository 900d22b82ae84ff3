package image

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
)

// fakeStore 基于 map 的元数据存储，可注入故障
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*metadata.Record

	putErr  error
	getErr  error
	scanErr error
	delErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*metadata.Record)}
}

func (s *fakeStore) Put(ctx context.Context, record *metadata.Record) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ImageID] = record.Clone()
	return nil
}

func (s *fakeStore) Get(ctx context.Context, imageID string) (*metadata.Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[imageID]
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, imageID string, fields map[string]interface{}) (*metadata.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[imageID]
	if !ok {
		return nil, metadata.ErrNotFound
	}
	if record.LockFile {
		return nil, metadata.ErrLocked
	}
	updated := record.Clone()
	if title, ok := fields["title"].(string); ok {
		updated.Title = title
	}
	if desc, ok := fields["description"].(string); ok {
		updated.Description = desc
	}
	if tags, ok := fields["tags"].([]metadata.Tag); ok {
		updated.Tags = tags
	}
	if lock, ok := fields["lockFile"].(bool); ok {
		updated.LockFile = lock
	}
	now := time.Now().UTC()
	updated.ModificationDate = &now
	s.records[imageID] = updated
	return updated.Clone(), nil
}

func (s *fakeStore) Delete(ctx context.Context, imageID string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, imageID)
	return nil
}

func (s *fakeStore) ScanAll(ctx context.Context) ([]*metadata.Record, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*metadata.Record, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	return out, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                   { return nil }
func (s *fakeStore) Name() string                   { return "fake" }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// fakeProvider 基于 map 的资源存储，可注入故障
type fakeProvider struct {
	mu      sync.Mutex
	objects map[string][]byte

	saveErr error
	delErr  error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: make(map[string][]byte)}
}

func (p *fakeProvider) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[identifier] = data
	return nil
}

func (p *fakeProvider) GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.objects[identifier]
	if !ok {
		return nil, storage.NewNotFoundError(identifier)
	}
	return bytes.NewReader(data), nil
}

func (p *fakeProvider) DeleteWithContext(ctx context.Context, identifier string) error {
	if p.delErr != nil {
		return p.delErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, identifier)
	return nil
}

func (p *fakeProvider) Exists(ctx context.Context, identifier string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.objects[identifier]
	return ok, nil
}

func (p *fakeProvider) Health(ctx context.Context) error { return nil }
func (p *fakeProvider) Name() string                     { return "fake" }

func (p *fakeProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects)
}
