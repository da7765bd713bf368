package batch

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvalidTransitionError rejects a lifecycle move not present in the
// transition tables, naming both states.
type InvalidTransitionError struct {
	Entity    string
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Entity, e.Current, e.Requested)
}

var batchTransitions = map[models.BatchStatus][]models.BatchStatus{
	models.BatchCreated:   {models.BatchProcessed, models.BatchRejected, models.BatchArchived},
	models.BatchProcessed: {models.BatchArchived},
	models.BatchRejected:  {models.BatchArchived},
	models.BatchArchived:  {},
}

var transferTransitions = map[models.TransferStatus][]models.TransferStatus{
	models.TransferCreated: {models.TransferSettled, models.TransferError},
	models.TransferSettled: {},
	models.TransferError:   {},
}

func batchAllowed(from, to models.BatchStatus) bool {
	for _, s := range batchTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func transferAllowed(from, to models.TransferStatus) bool {
	for _, s := range transferTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StateMachine owns every status mutation of batches and transfers. Each
// transition updates the status and appends one history row inside a single
// database transaction; concurrent transitions on the same entity serialize
// on a per-ID mutex so an illegal concurrent move is rejected rather than
// overwritten.
type StateMachine struct {
	db    *gorm.DB
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewStateMachine(db *gorm.DB) *StateMachine {
	return &StateMachine{db: db}
}

func (m *StateMachine) entityLock(id uuid.UUID) *sync.Mutex {
	v, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func detailJSON(detail map[string]interface{}) datatypes.JSON {
	if len(detail) == 0 {
		return nil
	}
	b, err := json.Marshal(detail)
	if err != nil {
		return nil
	}
	return b
}

// TransitionBatch moves a batch to next, recording actor and optional error
// message in the history trail.
func (m *StateMachine) TransitionBatch(id uuid.UUID, next models.BatchStatus, actor, errMsg string, detail map[string]interface{}) (*models.Batch, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("unknown batch status %q", next)
	}

	mu := m.entityLock(id)
	mu.Lock()
	defer mu.Unlock()

	var batch models.Batch
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&batch, "id = ?", id).Error; err != nil {
			return err
		}
		if !batchAllowed(batch.Status, next) {
			return &InvalidTransitionError{Entity: "batch", Current: batch.Status.String(), Requested: next.String()}
		}
		batch.Status = next
		if next == models.BatchArchived {
			batch.Archived = true
		}
		if err := tx.Save(&batch).Error; err != nil {
			return err
		}
		history := models.BatchHistory{
			ID:        uuid.New(),
			BatchID:   id,
			Status:    next.String(),
			Error:     errMsg,
			Actor:     actor,
			Detail:    detailJSON(detail),
			CreatedAt: time.Now(),
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// TransitionTransfer moves a transfer to next. Transfers of an archived
// batch are read-only. A transfer entering ERROR does not touch its batch;
// batch-level rejection is a separate operator decision.
func (m *StateMachine) TransitionTransfer(id uuid.UUID, next models.TransferStatus, actor, errMsg string, detail map[string]interface{}) (*models.Transfer, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("unknown transfer status %q", next)
	}

	mu := m.entityLock(id)
	mu.Lock()
	defer mu.Unlock()

	var transfer models.Transfer
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transfer, "id = ?", id).Error; err != nil {
			return err
		}
		var parent models.Batch
		if err := tx.First(&parent, "id = ?", transfer.BatchID).Error; err != nil {
			return err
		}
		if parent.Archived {
			return &InvalidTransitionError{Entity: "transfer", Current: transfer.Status.String() + " (batch archived)", Requested: next.String()}
		}
		if !transferAllowed(transfer.Status, next) {
			return &InvalidTransitionError{Entity: "transfer", Current: transfer.Status.String(), Requested: next.String()}
		}
		transfer.Status = next
		if next == models.TransferError {
			transfer.ErrorMessage = errMsg
		}
		if err := tx.Save(&transfer).Error; err != nil {
			return err
		}
		history := models.TransferHistory{
			ID:         uuid.New(),
			TransferID: id,
			Status:     next.String(),
			Error:      errMsg,
			Actor:      actor,
			Detail:     detailJSON(detail),
			CreatedAt:  time.Now(),
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}
