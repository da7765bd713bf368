package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transfer is one payment line of a batch. Amount is strictly positive and
// the reference is unique within its batch.
type Transfer struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID      uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_batch_reference" json:"batch_id"`
	MemberID     uuid.UUID       `gorm:"type:uuid;index" json:"member_id"`
	Member       Member          `json:"member,omitempty"`
	DonneurID    uuid.UUID       `gorm:"type:uuid;index" json:"donneur_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Reference    string          `gorm:"uniqueIndex:idx_batch_reference" json:"reference"`
	Motive       string          `json:"motive,omitempty"`
	Sequence     int             `json:"sequence"`
	Status       TransferStatus  `gorm:"index" json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`

	History []TransferHistory `gorm:"foreignKey:TransferID" json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransferHistory is an append-only audit row for one transfer.
type TransferHistory struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TransferID uuid.UUID      `gorm:"type:uuid;index" json:"transfer_id"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	Actor      string         `json:"actor"`
	Detail     datatypes.JSON `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
