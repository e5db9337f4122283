// internal/storage/models/base.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel заменяет gorm.Model для большего контроля
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
