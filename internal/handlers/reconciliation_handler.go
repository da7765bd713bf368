package handlers

import (
	"net/http"

	recon "virement-batch-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
)

type ReconciliationHandler struct {
	service *recon.Service
}

func NewReconciliationHandler(service *recon.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Run reconciles the settled transfers against the external payments in the
// request body and returns the matched/unmatched partition. Statuses are
// never changed here; operators act on the report through the transfer
// endpoints afterwards.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	var payload struct {
		ExternalPayments []recon.ExternalPayment `json:"external_payments"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	report, err := h.service.ReconcileSettled(payload.ExternalPayments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
