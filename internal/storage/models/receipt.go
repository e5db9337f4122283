// internal/storage/models/receipt.go
package models

const (
	FlowToken  = "token"
	FlowMarket = "market"
	FlowPool   = "pool"

	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Receipt records the artifacts of one flow invocation.
type Receipt struct {
	BaseModel
	Flow        string   `gorm:"index;not null;type:varchar(16)" json:"flow"`
	Status      string   `gorm:"not null;type:varchar(16)" json:"status"`
	Payer       string   `gorm:"index;not null;type:varchar(44)" json:"payer"`
	Signatures  []string `gorm:"serializer:json;type:jsonb" json:"signatures"`
	Address     string   `gorm:"index;type:varchar(44)" json:"address,omitempty"`
	MetadataURI string   `gorm:"type:text" json:"metadata_uri,omitempty"`
	ImageURL    string   `gorm:"type:text" json:"image_url,omitempty"`
	Error       string   `gorm:"type:text" json:"error,omitempty"`
}
