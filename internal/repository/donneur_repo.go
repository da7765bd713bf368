package repository

import (
	"time"

	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonneurRepository struct {
	db *gorm.DB
}

func NewDonneurRepository(db *gorm.DB) *DonneurRepository {
	return &DonneurRepository{db: db}
}

func (r *DonneurRepository) Create(name, rib string, societyID uuid.UUID) (*models.DonneurDOrdre, error) {
	d := &models.DonneurDOrdre{
		ID:        uuid.New(),
		Name:      name,
		RIB:       rib,
		SocietyID: societyID,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonneurRepository) GetByID(id uuid.UUID) (*models.DonneurDOrdre, error) {
	var d models.DonneurDOrdre
	if err := r.db.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonneurRepository) List(societyID uuid.UUID) ([]models.DonneurDOrdre, error) {
	var donneurs []models.DonneurDOrdre
	query := r.db.Order("name ASC")
	if societyID != uuid.Nil {
		query = query.Where("society_id = ?", societyID)
	}
	err := query.Find(&donneurs).Error
	return donneurs, err
}

func (r *DonneurRepository) Update(d *models.DonneurDOrdre) error {
	return r.db.Save(d).Error
}

func (r *DonneurRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.DonneurDOrdre{}, "id = ?", id).Error
}
