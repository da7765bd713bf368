package models

import (
	"time"

	"github.com/google/uuid"
)

// DonneurDOrdre is the paying entity that originates a batch.
type DonneurDOrdre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `json:"name"`
	RIB       string    `gorm:"column:rib;index" json:"rib"`
	SocietyID uuid.UUID `gorm:"type:uuid;index" json:"society_id"`
	CreatedAt time.Time `json:"created_at"`
}
