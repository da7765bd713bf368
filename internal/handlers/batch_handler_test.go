package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"virement-batch-backend/internal/fixedwidth"
	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"
	"virement-batch-backend/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Society{},
		&models.Member{},
		&models.DonneurDOrdre{},
		&models.Batch{},
		&models.BatchHistory{},
		&models.Transfer{},
		&models.TransferHistory{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := gin.New()
	routes.RegisterRoutes(r, db, 24*time.Hour)
	return r, db
}

func seedDirectory(t *testing.T, db *gorm.DB) (*models.Society, *models.DonneurDOrdre) {
	t.Helper()
	society, err := repository.NewSocietyRepository(db).Create("ACME", "ACM")
	if err != nil {
		t.Fatalf("society: %v", err)
	}
	donneur, err := repository.NewDonneurRepository(db).Create("ACME-PAY", "12345678901234567890", society.ID)
	if err != nil {
		t.Fatalf("donneur: %v", err)
	}
	return society, donneur
}

func paymentLine(t *testing.T, reference, amount, rib string) string {
	t.Helper()
	line, _, err := fixedwidth.EncodeLine(fixedwidth.PaymentSpec(), fixedwidth.Record{
		fixedwidth.FieldSenderNature:    "1",
		fixedwidth.FieldSenderCode:      "04",
		fixedwidth.FieldOperationDate:   "20260115",
		fixedwidth.FieldBatchNumber:     "1",
		fixedwidth.FieldAmount:          amount,
		fixedwidth.FieldTransferNumber:  "1",
		fixedwidth.FieldSenderAccount:   "12345678901234567890",
		fixedwidth.FieldSenderName:      "ACME-PAY",
		fixedwidth.FieldDestInstitution: "09",
		fixedwidth.FieldBeneficiaryRIB:  rib,
		fixedwidth.FieldBeneficiaryName: "JEAN DUPONT",
		fixedwidth.FieldDossierRef:      reference,
		fixedwidth.FieldComplementCode:  "0",
		fixedwidth.FieldComplementCount: "00",
		fixedwidth.FieldOperationMotive: "VIREMENT",
		fixedwidth.FieldClearingDate:    "20260115",
		fixedwidth.FieldRejectionMotive: "00000000",
		fixedwidth.FieldSenderSituation: "1",
		fixedwidth.FieldAccountType:     "1",
		fixedwidth.FieldAccountNature:   "C",
		fixedwidth.FieldChangeDossier:   "N",
	})
	if err != nil {
		t.Fatalf("encode line: %v", err)
	}
	return line
}

func multipartUpload(t *testing.T, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "virements.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func doRequest(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	rec := doRequest(r, http.MethodGet, "/api/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	body, ct := multipartUpload(t, paymentLine(t, "REF001", "15050", "09876543210987654321"), nil)
	rec := doRequest(r, http.MethodPost, "/api/batches/preview", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["valid"] != true {
		t.Fatalf("payload = %v", payload)
	}
}

func TestPreviewEmptyFile(t *testing.T) {
	r, _ := setupRouter(t)
	body, ct := multipartUpload(t, "", nil)
	rec := doRequest(r, http.MethodPost, "/api/batches/preview", body, ct)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestUploadEndpointCreatesBatch(t *testing.T) {
	r, db := setupRouter(t)
	society, donneur := seedDirectory(t, db)

	body, ct := multipartUpload(t, paymentLine(t, "REF001", "15050", "09876543210987654321"), map[string]string{
		"society_id": society.ID.String(),
		"donneur_id": donneur.ID.String(),
	})
	rec := doRequest(r, http.MethodPost, "/api/batches/upload", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var count int64
	db.Model(&models.Batch{}).Count(&count)
	if count != 1 {
		t.Fatalf("batches = %d, want 1", count)
	}
}

func TestUploadEndpointRejectsLineErrors(t *testing.T) {
	r, db := setupRouter(t)
	society, donneur := seedDirectory(t, db)

	good := paymentLine(t, "REF001", "15050", "09876543210987654321")
	bad := "2" + good[1:]
	body, ct := multipartUpload(t, good+"\n"+bad, map[string]string{
		"society_id": society.ID.String(),
		"donneur_id": donneur.ID.String(),
	})
	rec := doRequest(r, http.MethodPost, "/api/batches/upload", body, ct)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["errors"] == nil {
		t.Fatalf("line errors missing from payload: %v", payload)
	}

	var count int64
	db.Model(&models.Batch{}).Count(&count)
	if count != 0 {
		t.Fatalf("batches = %d, want 0", count)
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	r, _ := setupRouter(t)
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	w.WriteField("society_id", uuid.New().String())
	w.Close()
	rec := doRequest(r, http.MethodPost, "/api/batches/upload", body, w.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func uploadBatch(t *testing.T, r *gin.Engine, db *gorm.DB) uuid.UUID {
	t.Helper()
	society, donneur := seedDirectory(t, db)
	body, ct := multipartUpload(t, paymentLine(t, "REF001", "15050", "09876543210987654321"), map[string]string{
		"society_id": society.ID.String(),
		"donneur_id": donneur.ID.String(),
	})
	rec := doRequest(r, http.MethodPost, "/api/batches/upload", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var batch models.Batch
	if err := db.First(&batch).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	return batch.ID
}

func TestDownloadFileEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	rec := doRequest(r, http.MethodGet, "/api/batches/"+id.String()+"/file", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Fatalf("content disposition = %q", got)
	}
	if len(rec.Body.String()) != 280 {
		t.Fatalf("file length = %d, want 280", len(rec.Body.String()))
	}
}

func TestDownloadPDFEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	rec := doRequest(r, http.MethodGet, "/api/batches/"+id.String()+"/pdf", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatal("response is not a PDF")
	}
}

func TestStatusEndpointAndArchiveConflict(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	payload, _ := json.Marshal(map[string]string{"status": "PROCESSED"})
	rec := doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/status", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/archive", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("archive = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Archived is terminal: any further transition conflicts.
	payload, _ = json.Marshal(map[string]string{"status": "REJECTED"})
	rec = doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/status", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusConflict {
		t.Fatalf("post-archive transition = %d, want 409", rec.Code)
	}
}

func TestStatusEndpointUnknownBatch(t *testing.T) {
	r, _ := setupRouter(t)
	payload, _ := json.Marshal(map[string]string{"status": "PROCESSED"})
	rec := doRequest(r, http.MethodPost, "/api/batches/"+uuid.New().String()+"/status", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTransferStatusEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	var transfer models.Transfer
	if err := db.First(&transfer, "batch_id = ?", id).Error; err != nil {
		t.Fatalf("load transfer: %v", err)
	}
	payload, _ := json.Marshal(map[string]string{"status": "SETTLED"})
	rec := doRequest(r, http.MethodPost, "/api/transfers/"+transfer.ID.String()+"/status", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, http.MethodGet, "/api/transfers/"+transfer.ID.String()+"/history", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history = %d", rec.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)
	if err := db.Model(&models.Batch{}).Where("id = ?", id).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error; err != nil {
		t.Fatalf("age batch: %v", err)
	}

	rec := doRequest(r, http.MethodGet, "/api/alerts", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	delayed, ok := payload["delayed_batches"].([]any)
	if !ok || len(delayed) != 1 {
		t.Fatalf("delayed batches = %v", payload["delayed_batches"])
	}
}

func TestReconciliationEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	var transfer models.Transfer
	if err := db.First(&transfer, "batch_id = ?", id).Error; err != nil {
		t.Fatalf("load transfer: %v", err)
	}
	if err := db.Model(&transfer).Update("status", models.TransferSettled).Error; err != nil {
		t.Fatalf("settle: %v", err)
	}

	payload, _ := json.Marshal(map[string]any{
		"external_payments": []map[string]any{
			{"reference": "REF001", "amount": decimal.RequireFromString("150.50")},
			{"reference": "REF999", "amount": decimal.RequireFromString("10.00")},
		},
	})
	rec := doRequest(r, http.MethodPost, "/api/reconciliation/run", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	report := decodeBody(t, rec)
	matched, ok := report["matched"].([]any)
	if !ok || len(matched) != 1 {
		t.Fatalf("matched = %v", report["matched"])
	}
	unmatched, ok := report["unmatched_external"].([]any)
	if !ok || len(unmatched) != 1 {
		t.Fatalf("unmatched external = %v", report["unmatched_external"])
	}
}

func TestAddAndDeleteTransferEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	id := uploadBatch(t, r, db)

	payload, _ := json.Marshal(map[string]any{
		"member_name": "MARIE CURIE",
		"member_rib":  "09876543210987654322",
		"amount":      "99.99",
		"reference":   "REF002",
	})
	rec := doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/transfers", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add transfer = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	transferID, _ := created["id"].(string)
	if transferID == "" {
		t.Fatalf("no id in %v", created)
	}

	// Duplicate reference conflicts.
	rec = doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/transfers", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate reference = %d, want 409", rec.Code)
	}

	rec = doRequest(r, http.MethodDelete, "/api/transfers/"+transferID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete transfer = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Once the batch leaves CREATED its composition is frozen.
	status, _ := json.Marshal(map[string]string{"status": "PROCESSED"})
	rec = doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/status", bytes.NewBuffer(status), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("process = %d", rec.Code)
	}
	rec = doRequest(r, http.MethodPost, "/api/batches/"+id.String()+"/transfers", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusConflict {
		t.Fatalf("add on processed batch = %d, want 409", rec.Code)
	}
}

func TestSocietyCRUD(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{"name": "ACME", "code": "ACM"})
	rec := doRequest(r, http.MethodPost, "/api/societies", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("no id in %v", created)
	}

	payload, _ = json.Marshal(map[string]string{"name": "ACME SA"})
	rec = doRequest(r, http.MethodPut, "/api/societies/"+id, bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody(t, rec)
	if updated["name"] != "ACME SA" || updated["code"] != "ACM" {
		t.Fatalf("updated = %v", updated)
	}

	rec = doRequest(r, http.MethodDelete, "/api/societies/"+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doRequest(r, http.MethodGet, "/api/societies/"+id, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}
