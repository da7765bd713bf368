package repository

import (
	"time"

	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) DB() *gorm.DB {
	return r.db
}

// NextNumber allocates the next positional batch number for a society.
func (r *BatchRepository) NextNumber(societyID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.Model(&models.Batch{}).Where("society_id = ?", societyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// GetByID loads a batch with its donneur, society and ordered transfers
// (members preloaded).
func (r *BatchRepository) GetByID(id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.
		Preload("Society").
		Preload("Donneur").
		Preload("Transfers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Transfers.Member").
		First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *BatchRepository) List(status models.BatchStatus) ([]models.Batch, error) {
	var batches []models.Batch
	query := r.db.Preload("Society").Preload("Donneur").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&batches).Error
	return batches, err
}

// Delete removes a batch with its transfers and history. This is an explicit
// administrative action outside the normal lifecycle.
func (r *BatchRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var transferIDs []uuid.UUID
		if err := tx.Model(&models.Transfer{}).Where("batch_id = ?", id).Pluck("id", &transferIDs).Error; err != nil {
			return err
		}
		if len(transferIDs) > 0 {
			if err := tx.Delete(&models.TransferHistory{}, "transfer_id IN ?", transferIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Transfer{}, "batch_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BatchHistory{}, "batch_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Batch{}, "id = ?", id).Error
	})
}

func (r *BatchRepository) History(id uuid.UUID) ([]models.BatchHistory, error) {
	var history []models.BatchHistory
	err := r.db.Where("batch_id = ?", id).Order("created_at ASC").Find(&history).Error
	return history, err
}

// FindDelayed returns non-archived batches still in CREATED older than the
// given threshold.
func (r *BatchRepository) FindDelayed(threshold time.Duration) ([]models.Batch, error) {
	var batches []models.Batch
	cutoff := time.Now().Add(-threshold)
	err := r.db.Preload("Society").
		Where("status = ? AND created_at < ?", models.BatchCreated, cutoff).
		Order("created_at ASC").
		Find(&batches).Error
	return batches, err
}
