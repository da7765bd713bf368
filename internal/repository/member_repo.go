package repository

import (
	"time"

	"virement-batch-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(m *models.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	return r.db.Create(m).Error
}

func (r *MemberRepository) GetByID(id uuid.UUID) (*models.Member, error) {
	var m models.Member
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) GetByRIB(rib string) (*models.Member, error) {
	var m models.Member
	if err := r.db.First(&m, "rib = ?", rib).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOrCreateByRIB resolves the member owning rib, creating it when absent.
// The insert ignores conflicts on the unique rib index so concurrent decodes
// of the same account converge on a single row.
func (r *MemberRepository) FindOrCreateByRIB(name, rib string, societyID uuid.UUID) (*models.Member, error) {
	m := &models.Member{
		ID:        uuid.New(),
		Name:      name,
		RIB:       rib,
		SocietyID: societyID,
		CreatedAt: time.Now(),
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rib"}},
		DoNothing: true,
	}).Create(m).Error; err != nil {
		return nil, err
	}
	return r.GetByRIB(rib)
}

func (r *MemberRepository) List(societyID uuid.UUID) ([]models.Member, error) {
	var members []models.Member
	query := r.db.Order("name ASC")
	if societyID != uuid.Nil {
		query = query.Where("society_id = ?", societyID)
	}
	err := query.Find(&members).Error
	return members, err
}

func (r *MemberRepository) Update(m *models.Member) error {
	return r.db.Save(m).Error
}

func (r *MemberRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Member{}, "id = ?", id).Error
}
