package repository

import (
	"time"

	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocietyRepository struct {
	db *gorm.DB
}

func NewSocietyRepository(db *gorm.DB) *SocietyRepository {
	return &SocietyRepository{db: db}
}

func (r *SocietyRepository) DB() *gorm.DB {
	return r.db
}

func (r *SocietyRepository) Create(name, code string) (*models.Society, error) {
	s := &models.Society{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SocietyRepository) GetByID(id uuid.UUID) (*models.Society, error) {
	var s models.Society
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SocietyRepository) List() ([]models.Society, error) {
	var societies []models.Society
	err := r.db.Order("created_at ASC").Find(&societies).Error
	return societies, err
}

// Update changes the display name only. The external code is immutable once
// assigned; a code change requires a new Society.
func (r *SocietyRepository) Update(id uuid.UUID, name string) (*models.Society, error) {
	s, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.Name = name
	if err := r.db.Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SocietyRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Society{}, "id = ?", id).Error
}
