package handler

import (
	"net/http"
	"strconv"

	"vecindo/internal/middleware"
	"vecindo/internal/models"
	"vecindo/internal/repository"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	repo        *repository.BusinessRepository
	productRepo *repository.ProductRepository
}

func NewBusinessHandler(repo *repository.BusinessRepository, productRepo *repository.ProductRepository) *BusinessHandler {
	return &BusinessHandler{repo: repo, productRepo: productRepo}
}

type createBusinessRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=128"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CommuneID   *uint  `json:"commune_id"`
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req createBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := &models.Business{
		UserID:      middleware.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Phone:       req.Phone,
		Address:     req.Address,
		CommuneID:   req.CommuneID,
		Active:      true,
	}
	if err := h.repo.Create(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": b})
}

// ListMine returns the authenticated merchant's businesses.
func (h *BusinessHandler) ListMine(c *gin.Context) {
	list, err := h.repo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": list})
}

// List returns active storefronts for public browsing.
func (h *BusinessHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListActive(c.Query("category"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": list})
}

func (h *BusinessHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return
	}
	b, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}
	products, err := h.productRepo.ListByBusiness(b.ID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": b, "products": products})
}
