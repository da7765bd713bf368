package batch

import (
	"errors"
	"fmt"
	"time"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrLineErrors rejects an upload whose file carries line errors when the
// caller did not opt into a partial import. The validation result travels
// alongside so the caller still gets the full diagnosis.
var ErrLineErrors = errors.New("file contains line errors")

// ErrBatchNotEditable rejects composition changes on a batch that already
// left CREATED. Status moves stay possible through the state machine.
var ErrBatchNotEditable = errors.New("batch is no longer editable")

// ErrDuplicateReference rejects a transfer whose reference already exists in
// the batch.
var ErrDuplicateReference = errors.New("reference already used in batch")

// ErrAmountNotPositive rejects a non-positive transfer amount.
var ErrAmountNotPositive = errors.New("amount must be positive")

// Service orchestrates the upload pipeline: validate, resolve members,
// persist batch and transfers with their initial history rows.
type Service struct {
	db        *gorm.DB
	validator *Validator
	members   *repository.MemberRepository
	batches   *repository.BatchRepository
	transfers *repository.TransferRepository
	donneurs  *repository.DonneurRepository
	societies *repository.SocietyRepository
}

func NewService(
	db *gorm.DB,
	validator *Validator,
	members *repository.MemberRepository,
	batches *repository.BatchRepository,
	transfers *repository.TransferRepository,
	donneurs *repository.DonneurRepository,
	societies *repository.SocietyRepository,
) *Service {
	return &Service{
		db:        db,
		validator: validator,
		members:   members,
		batches:   batches,
		transfers: transfers,
		donneurs:  donneurs,
		societies: societies,
	}
}

// Preview validates a file without persisting anything.
func (s *Service) Preview(content []byte) (*FileValidation, error) {
	return s.validator.ValidateFile(content)
}

// Upload validates content and persists a new batch with its transfers.
// When the file has line errors the whole upload fails unless acceptPartial
// is set, in which case only clean lines become transfers and the returned
// validation still carries every error.
func (s *Service) Upload(content []byte, fileName, actor string, societyID, donneurID uuid.UUID, acceptPartial bool) (*models.Batch, *FileValidation, error) {
	validation, err := s.validator.ValidateFile(content)
	if err != nil {
		return nil, nil, err
	}
	if !validation.Valid() && !acceptPartial {
		return nil, validation, ErrLineErrors
	}
	if len(validation.Transfers) == 0 {
		return nil, validation, fmt.Errorf("no valid lines to import: %w", ErrLineErrors)
	}

	society, err := s.societies.GetByID(societyID)
	if err != nil {
		return nil, validation, fmt.Errorf("society: %w", err)
	}
	donneur, err := s.donneurs.GetByID(donneurID)
	if err != nil {
		return nil, validation, fmt.Errorf("donneur: %w", err)
	}

	// Resolve members up front; the upsert is idempotent per RIB.
	memberIDs := make([]uuid.UUID, len(validation.Transfers))
	for i, dt := range validation.Transfers {
		member, err := s.members.FindOrCreateByRIB(dt.BeneficiaryName, dt.BeneficiaryRIB, society.ID)
		if err != nil {
			return nil, validation, fmt.Errorf("member %s: %w", dt.BeneficiaryRIB, err)
		}
		memberIDs[i] = member.ID
	}

	number, err := s.batches.NextNumber(society.ID)
	if err != nil {
		return nil, validation, err
	}

	batch := &models.Batch{
		ID:        uuid.New(),
		Number:    number,
		SocietyID: society.ID,
		DonneurID: donneur.ID,
		Status:    models.BatchCreated,
		FileName:  fileName,
		FileKind:  "virement",
		CreatedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.BatchHistory{
			ID:        uuid.New(),
			BatchID:   batch.ID,
			Status:    models.BatchCreated.String(),
			Actor:     actor,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}
		for i, dt := range validation.Transfers {
			transfer := models.Transfer{
				ID:        uuid.New(),
				BatchID:   batch.ID,
				MemberID:  memberIDs[i],
				DonneurID: donneur.ID,
				Amount:    dt.Amount,
				Reference: dt.Reference,
				Motive:    dt.Motive,
				Sequence:  i + 1,
				Status:    models.TransferCreated,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&transfer).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.TransferHistory{
				ID:         uuid.New(),
				TransferID: transfer.ID,
				Status:     models.TransferCreated.String(),
				Actor:      actor,
				CreatedAt:  time.Now(),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, validation, err
	}

	created, err := s.batches.GetByID(batch.ID)
	if err != nil {
		return nil, validation, err
	}
	return created, validation, nil
}

// AddTransfer appends one manually entered transfer to a CREATED batch. The
// member is resolved by RIB like during upload.
func (s *Service) AddTransfer(batchID uuid.UUID, actor, memberName, memberRIB string, amount decimal.Decimal, reference, motive string) (*models.Transfer, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	batch, err := s.batches.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != models.BatchCreated || batch.Archived {
		return nil, ErrBatchNotEditable
	}
	for _, t := range batch.Transfers {
		if t.Reference == reference {
			return nil, ErrDuplicateReference
		}
	}
	member, err := s.members.FindOrCreateByRIB(memberName, memberRIB, batch.SocietyID)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", memberRIB, err)
	}

	transfer := &models.Transfer{
		ID:        uuid.New(),
		BatchID:   batch.ID,
		MemberID:  member.ID,
		DonneurID: batch.DonneurID,
		Amount:    amount,
		Reference: reference,
		Motive:    motive,
		Sequence:  len(batch.Transfers) + 1,
		Status:    models.TransferCreated,
		CreatedAt: time.Now(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			return err
		}
		return tx.Create(&models.TransferHistory{
			ID:         uuid.New(),
			TransferID: transfer.ID,
			Status:     models.TransferCreated.String(),
			Actor:      actor,
			CreatedAt:  time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	transfer.Member = *member
	return transfer, nil
}

// RemoveTransfer deletes a transfer and its history while its batch is still
// in CREATED.
func (s *Service) RemoveTransfer(transferID uuid.UUID) error {
	transfer, err := s.transfers.GetByID(transferID)
	if err != nil {
		return err
	}
	batch, err := s.batches.GetByID(transfer.BatchID)
	if err != nil {
		return err
	}
	if batch.Status != models.BatchCreated || batch.Archived {
		return ErrBatchNotEditable
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TransferHistory{}, "transfer_id = ?", transferID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Transfer{}, "id = ?", transferID).Error
	})
}

// Alerts surfaces transfers in ERROR and batches stuck in CREATED beyond
// the threshold.
type Alerts struct {
	ErrorTransfers []models.Transfer `json:"error_transfers"`
	DelayedBatches []models.Batch    `json:"delayed_batches"`
}

func (s *Service) Alerts(delayThreshold time.Duration) (*Alerts, error) {
	errored, err := s.transfers.FindByStatus(models.TransferError)
	if err != nil {
		return nil, err
	}
	delayed, err := s.batches.FindDelayed(delayThreshold)
	if err != nil {
		return nil, err
	}
	return &Alerts{ErrorTransfers: errored, DelayedBatches: delayed}, nil
}
