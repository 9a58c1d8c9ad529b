package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopledger/shopledger/internal/reports"
)

// ResultStore keeps rendered report PDFs in Redis until they are fetched.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

type storedResult struct {
	Filename string `json:"filename"`
	PDF      []byte `json:"pdf"`
}

func (s *ResultStore) key(id string) string {
	return "report:result:" + id
}

// Save stores a rendered report under the result id.
func (s *ResultStore) Save(ctx context.Context, id, filename string, pdf []byte) error {
	data, err := json.Marshal(storedResult{Filename: filename, PDF: pdf})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

// Get fetches a rendered report. ok is false while the render is still
// pending or after the result expired.
func (s *ResultStore) Get(ctx context.Context, id string) (reports.StoredResult, bool, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return reports.StoredResult{}, false, nil
	}
	if err != nil {
		return reports.StoredResult{}, false, err
	}
	var stored storedResult
	if err := json.Unmarshal(payload, &stored); err != nil {
		return reports.StoredResult{}, false, err
	}
	return reports.StoredResult{Filename: stored.Filename, PDF: stored.PDF}, true, nil
}
