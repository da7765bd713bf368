package handlers

import (
	"errors"
	"net/http"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"
	batchsvc "virement-batch-backend/internal/services/batch"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferHandler struct {
	transfers *repository.TransferRepository
	machine   *batchsvc.StateMachine
	service   *batchsvc.Service
}

func NewTransferHandler(transfers *repository.TransferRepository, machine *batchsvc.StateMachine, service *batchsvc.Service) *TransferHandler {
	return &TransferHandler{transfers: transfers, machine: machine, service: service}
}

func (h *TransferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer ID"})
		return
	}
	transfer, err := h.transfers.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
		return
	}
	c.JSON(http.StatusOK, transfer)
}

// UpdateStatus settles or errors a single transfer.
func (h *TransferHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer ID"})
		return
	}
	var payload struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	transfer, err := h.machine.TransitionTransfer(id, models.TransferStatus(payload.Status), actorFrom(c), payload.Error, nil)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer status updated", "transfer": transfer})
}

// Delete removes a transfer from a batch still in CREATED.
func (h *TransferHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer ID"})
		return
	}
	if err := h.service.RemoveTransfer(id); err != nil {
		switch {
		case errors.Is(err, batchsvc.ErrBatchNotEditable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer deleted"})
}

func (h *TransferHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer ID"})
		return
	}
	history, err := h.transfers.History(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": history})
}
