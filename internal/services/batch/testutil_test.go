package batch

import (
	"fmt"
	"testing"
	"time"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// seedBatch creates a society "ACME" with donneur "ACME-PAY", member
// "Jean Dupont" and one CREATED batch holding a single 150.50 transfer.
func seedBatch(t *testing.T, db *gorm.DB) *models.Batch {
	t.Helper()
	society, err := repository.NewSocietyRepository(db).Create("ACME", "ACM")
	if err != nil {
		t.Fatalf("society: %v", err)
	}
	donneur, err := repository.NewDonneurRepository(db).Create("ACME-PAY", "12345678901234567890", society.ID)
	if err != nil {
		t.Fatalf("donneur: %v", err)
	}
	member := &models.Member{Name: "Jean Dupont", RIB: "09876543210987654321", SocietyID: society.ID}
	if err := repository.NewMemberRepository(db).Create(member); err != nil {
		t.Fatalf("member: %v", err)
	}

	batch := &models.Batch{
		ID:        uuid.New(),
		Number:    1,
		SocietyID: society.ID,
		DonneurID: donneur.ID,
		Status:    models.BatchCreated,
		FileName:  "virements.txt",
		FileKind:  "virement",
		CreatedAt: time.Now(),
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("batch: %v", err)
	}
	transfer := &models.Transfer{
		ID:        uuid.New(),
		BatchID:   batch.ID,
		MemberID:  member.ID,
		DonneurID: donneur.ID,
		Amount:    decimal.RequireFromString("150.50"),
		Reference: "REF001",
		Sequence:  1,
		Status:    models.TransferCreated,
		CreatedAt: time.Now(),
	}
	if err := db.Create(transfer).Error; err != nil {
		t.Fatalf("transfer: %v", err)
	}
	return batch
}

func firstTransfer(t *testing.T, db *gorm.DB, batchID uuid.UUID) *models.Transfer {
	t.Helper()
	var transfer models.Transfer
	if err := db.First(&transfer, "batch_id = ?", batchID).Error; err != nil {
		t.Fatalf("load transfer: %v", err)
	}
	return &transfer
}
