// Package memory keeps receipts in process memory. It backs the CLI and
// tests when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

type Storage struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]models.Receipt
}

func NewStorage() *Storage {
	return &Storage{receipts: make(map[uuid.UUID]models.Receipt)}
}

func (s *Storage) SaveReceipt(_ context.Context, r *models.Receipt) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[r.ID] = clone(r)
	return nil
}

func (s *Storage) GetReceipt(_ context.Context, id uuid.UUID) (*models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := clone(&r)
	return &out, nil
}

func (s *Storage) ListReceipts(_ context.Context, flow string, limit int) ([]*models.Receipt, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	s.mu.RLock()
	out := make([]*models.Receipt, 0, len(s.receipts))
	for _, r := range s.receipts {
		if flow != "" && r.Flow != flow {
			continue
		}
		c := clone(&r)
		out = append(out, &c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clone(r *models.Receipt) models.Receipt {
	c := *r
	c.Signatures = append([]string(nil), r.Signatures...)
	return c
}

var _ storage.ReceiptStore = (*Storage)(nil)
