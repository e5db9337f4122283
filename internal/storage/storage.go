// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

// ErrNotFound is returned when no receipt has the requested id.
var ErrNotFound = errors.New("receipt not found")

// DefaultListLimit caps ListReceipts when limit is not positive.
const DefaultListLimit = 50

// ReceiptStore определяет интерфейс для хранения результатов запусков
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, r *models.Receipt) error
	GetReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	// ListReceipts returns the newest receipts first. An empty flow matches every flow.
	ListReceipts(ctx context.Context, flow string, limit int) ([]*models.Receipt, error)
}
