package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a payment beneficiary, keyed by RIB.
type Member struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"index" json:"name"`
	RIB        string    `gorm:"column:rib;uniqueIndex" json:"rib"`
	NationalID string    `json:"national_id,omitempty"`
	Address    string    `json:"address,omitempty"`
	SocietyID  uuid.UUID `gorm:"type:uuid;index" json:"society_id"`
	CreatedAt  time.Time `json:"created_at"`
}
