package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Batch is one uploaded (or manually created) set of transfers destined for
// a single generated bank file. Mutations go through the state machine only;
// an archived batch is read-only.
type Batch struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Number    int           `gorm:"index" json:"number"`
	SocietyID uuid.UUID     `gorm:"type:uuid;index" json:"society_id"`
	Society   Society       `json:"society,omitempty"`
	DonneurID uuid.UUID     `gorm:"type:uuid;index" json:"donneur_id"`
	Donneur   DonneurDOrdre `gorm:"foreignKey:DonneurID" json:"donneur,omitempty"`
	Status    BatchStatus   `gorm:"index" json:"status"`
	FileName  string        `json:"file_name"`
	FileKind  string        `json:"file_kind"`
	Archived  bool          `gorm:"index" json:"archived"`

	Transfers []Transfer     `gorm:"foreignKey:BatchID" json:"transfers,omitempty"`
	History   []BatchHistory `gorm:"foreignKey:BatchID" json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BatchHistory is an append-only audit row. Rows are never updated or
// deleted once written.
type BatchHistory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID   uuid.UUID      `gorm:"type:uuid;index" json:"batch_id"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Actor     string         `json:"actor"`
	Detail    datatypes.JSON `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
