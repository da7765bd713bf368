package repository

import (
	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) GetByID(id uuid.UUID) (*models.Transfer, error) {
	var t models.Transfer
	if err := r.db.Preload("Member").First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepository) History(id uuid.UUID) ([]models.TransferHistory, error) {
	var history []models.TransferHistory
	err := r.db.Where("transfer_id = ?", id).Order("created_at ASC").Find(&history).Error
	return history, err
}

func (r *TransferRepository) FindByStatus(status models.TransferStatus) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.Preload("Member").Where("status = ?", status).Order("created_at ASC").Find(&transfers).Error
	return transfers, err
}
