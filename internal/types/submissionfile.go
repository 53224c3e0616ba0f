package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubmissionFileStatusPending  = "pending"
	SubmissionFileStatusUploaded = "uploaded"
)

// SubmissionFile is an invoice/price-list document a lead attaches to their
// submission. Rows are created "pending" when a signed upload URL is issued
// and flipped to "uploaded" once the client confirms the PUT.
type SubmissionFile struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID   `gorm:"type:uuid;not null;index" json:"submission_id"`
	Submission   *Submission `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"-"`

	OriginalName string `gorm:"column:original_name;not null" json:"original_name"`
	ContentType  string `gorm:"column:content_type" json:"content_type"`
	SizeBytes    int64  `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey   string `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL      string `gorm:"column:file_url" json:"file_url"`
	Status       string `gorm:"column:status;not null;default:'pending'" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SubmissionFile) TableName() string {
	return "submission_file"
}
