package models

import (
	"time"

	"github.com/google/uuid"
)

// Society owns members and originates batches. The code is the external
// identifier carried in generated files; once a batch references a society
// the code must not change (create a new Society instead).
type Society struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Code      string    `gorm:"uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
