package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"
	batchsvc "virement-batch-backend/internal/services/batch"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BatchHandler struct {
	service   *batchsvc.Service
	generator *batchsvc.Generator
	machine   *batchsvc.StateMachine
	batches   *repository.BatchRepository
	threshold time.Duration
}

func NewBatchHandler(
	service *batchsvc.Service,
	generator *batchsvc.Generator,
	machine *batchsvc.StateMachine,
	batches *repository.BatchRepository,
	threshold time.Duration,
) *BatchHandler {
	return &BatchHandler{
		service:   service,
		generator: generator,
		machine:   machine,
		batches:   batches,
		threshold: threshold,
	}
}

func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor"); actor != "" {
		return actor
	}
	return "operator"
}

func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return nil, "", false
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return nil, "", false
	}
	return content, header.Filename, true
}

// Preview validates an uploaded file without persisting anything.
func (h *BatchHandler) Preview(c *gin.Context) {
	content, _, ok := readUpload(c)
	if !ok {
		return
	}
	validation, err := h.service.Preview(content)
	if err != nil {
		if errors.Is(err, batchsvc.ErrEmptyFile) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transfers": validation.Transfers,
		"errors":    validation.Errors,
		"valid":     validation.Valid(),
	})
}

// Upload validates and persists a batch. Fails atomically on any line error
// unless accept_partial=true.
func (h *BatchHandler) Upload(c *gin.Context) {
	content, fileName, ok := readUpload(c)
	if !ok {
		return
	}
	societyID, err := uuid.Parse(c.PostForm("society_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society_id"})
		return
	}
	donneurID, err := uuid.Parse(c.PostForm("donneur_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donneur_id"})
		return
	}
	acceptPartial := c.PostForm("accept_partial") == "true"

	batch, validation, err := h.service.Upload(content, fileName, actorFrom(c), societyID, donneurID, acceptPartial)
	if err != nil {
		switch {
		case errors.Is(err, batchsvc.ErrEmptyFile):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, batchsvc.ErrLineErrors):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  err.Error(),
				"errors": validation.Errors,
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"batch":  batch,
		"errors": validation.Errors,
	})
}

func (h *BatchHandler) List(c *gin.Context) {
	status := models.BatchStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	batches, err := h.batches.List(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": batches})
}

func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	batch, err := h.batches.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Delete removes a batch outright. Administrative action; archiving is the
// normal terminal state.
func (h *BatchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	if err := h.batches.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch deleted"})
}

// DownloadFile generates and streams the fixed-width bank file.
func (h *BatchHandler) DownloadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	content, warnings, err := h.generator.GenerateFile(id)
	if err != nil {
		var selfCheck *batchsvc.SelfCheckError
		if errors.As(err, &selfCheck) {
			// Encoder defect, not a data problem. Distinct from user input
			// errors so operators do not chase the wrong cause.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":       "generation self-check failed",
				"self_check":  true,
				"line_errors": selfCheck.Errors,
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, w := range warnings {
		c.Header("X-Generation-Warning", w.String())
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=virements_%s.txt", id))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// DownloadPDF streams the companion bordereau.
func (h *BatchHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	content, err := h.generator.GeneratePDF(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bordereau_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", content)
}

// UpdateStatus drives an operator transition (PROCESSED or REJECTED).
func (h *BatchHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
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
	batch, err := h.machine.TransitionBatch(id, models.BatchStatus(payload.Status), actorFrom(c), payload.Error, nil)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch status updated", "batch": batch})
}

func (h *BatchHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	batch, err := h.machine.TransitionBatch(id, models.BatchArchived, actorFrom(c), "", nil)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch archived", "batch": batch})
}

func (h *BatchHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	history, err := h.batches.History(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": history})
}

// AddTransfer appends a manually entered transfer to a CREATED batch.
func (h *BatchHandler) AddTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return
	}
	var payload struct {
		MemberName string          `json:"member_name"`
		MemberRIB  string          `json:"member_rib"`
		Amount     decimal.Decimal `json:"amount"`
		Reference  string          `json:"reference"`
		Motive     string          `json:"motive"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.MemberRIB == "" || payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_rib, reference and amount required"})
		return
	}
	transfer, err := h.service.AddTransfer(id, actorFrom(c), payload.MemberName, payload.MemberRIB, payload.Amount, payload.Reference, payload.Motive)
	if err != nil {
		switch {
		case errors.Is(err, batchsvc.ErrBatchNotEditable), errors.Is(err, batchsvc.ErrDuplicateReference):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, batchsvc.ErrAmountNotPositive):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *BatchHandler) Alerts(c *gin.Context) {
	alerts, err := h.service.Alerts(h.threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func respondTransitionError(c *gin.Context, err error) {
	var invalid *batchsvc.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
