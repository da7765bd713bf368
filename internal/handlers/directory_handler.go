package handlers

import (
	"net/http"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DirectoryHandler serves the reference data behind batches: societies,
// members and donneurs d'ordre. Plain CRUD; lifecycle rules live in the
// batch services.
type DirectoryHandler struct {
	societies *repository.SocietyRepository
	members   *repository.MemberRepository
	donneurs  *repository.DonneurRepository
}

func NewDirectoryHandler(
	societies *repository.SocietyRepository,
	members *repository.MemberRepository,
	donneurs *repository.DonneurRepository,
) *DirectoryHandler {
	return &DirectoryHandler{societies: societies, members: members, donneurs: donneurs}
}

func (h *DirectoryHandler) CreateSociety(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" || payload.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code required"})
		return
	}
	society, err := h.societies.Create(payload.Name, payload.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, society)
}

func (h *DirectoryHandler) ListSocieties(c *gin.Context) {
	societies, err := h.societies.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": societies})
}

func (h *DirectoryHandler) GetSociety(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society ID"})
		return
	}
	society, err := h.societies.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "society not found"})
		return
	}
	c.JSON(http.StatusOK, society)
}

func (h *DirectoryHandler) UpdateSociety(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society ID"})
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	society, err := h.societies.Update(id, payload.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, society)
}

func (h *DirectoryHandler) DeleteSociety(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society ID"})
		return
	}
	if err := h.societies.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "society deleted"})
}

func (h *DirectoryHandler) CreateMember(c *gin.Context) {
	var payload struct {
		Name       string `json:"name"`
		RIB        string `json:"rib"`
		NationalID string `json:"national_id"`
		Address    string `json:"address"`
		SocietyID  string `json:"society_id"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" || payload.RIB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and rib required"})
		return
	}
	societyID, err := uuid.Parse(payload.SocietyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society_id"})
		return
	}
	member := &models.Member{
		Name:       payload.Name,
		RIB:        payload.RIB,
		NationalID: payload.NationalID,
		Address:    payload.Address,
		SocietyID:  societyID,
	}
	if err := h.members.Create(member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *DirectoryHandler) ListMembers(c *gin.Context) {
	societyID := uuid.Nil
	if raw := c.Query("society_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society_id"})
			return
		}
		societyID = id
	}
	members, err := h.members.List(societyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": members})
}

func (h *DirectoryHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}
	member, err := h.members.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *DirectoryHandler) UpdateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}
	member, err := h.members.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	var payload struct {
		Name       string `json:"name"`
		NationalID string `json:"national_id"`
		Address    string `json:"address"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Name != "" {
		member.Name = payload.Name
	}
	member.NationalID = payload.NationalID
	member.Address = payload.Address
	if err := h.members.Update(member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *DirectoryHandler) DeleteMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}
	if err := h.members.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member deleted"})
}

func (h *DirectoryHandler) CreateDonneur(c *gin.Context) {
	var payload struct {
		Name      string `json:"name"`
		RIB       string `json:"rib"`
		SocietyID string `json:"society_id"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" || payload.RIB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and rib required"})
		return
	}
	societyID, err := uuid.Parse(payload.SocietyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society_id"})
		return
	}
	donneur, err := h.donneurs.Create(payload.Name, payload.RIB, societyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, donneur)
}

func (h *DirectoryHandler) ListDonneurs(c *gin.Context) {
	societyID := uuid.Nil
	if raw := c.Query("society_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society_id"})
			return
		}
		societyID = id
	}
	donneurs, err := h.donneurs.List(societyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": donneurs})
}

func (h *DirectoryHandler) GetDonneur(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donneur ID"})
		return
	}
	donneur, err := h.donneurs.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donneur not found"})
		return
	}
	c.JSON(http.StatusOK, donneur)
}

func (h *DirectoryHandler) UpdateDonneur(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donneur ID"})
		return
	}
	donneur, err := h.donneurs.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donneur not found"})
		return
	}
	var payload struct {
		Name string `json:"name"`
		RIB  string `json:"rib"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Name != "" {
		donneur.Name = payload.Name
	}
	if payload.RIB != "" {
		donneur.RIB = payload.RIB
	}
	if err := h.donneurs.Update(donneur); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, donneur)
}

func (h *DirectoryHandler) DeleteDonneur(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donneur ID"})
		return
	}
	if err := h.donneurs.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "donneur deleted"})
}
