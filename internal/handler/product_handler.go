package handler

import (
	"net/http"
	"strconv"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/middleware"
	"vecindo/internal/models"
	"vecindo/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	repo         *repository.ProductRepository
	businessRepo *repository.BusinessRepository
	userRepo     *repository.UserRepository
}

func NewProductHandler(repo *repository.ProductRepository, businessRepo *repository.BusinessRepository, userRepo *repository.UserRepository) *ProductHandler {
	return &ProductHandler{repo: repo, businessRepo: businessRepo, userRepo: userRepo}
}

type createProductRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=128"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Category    string `json:"category"`
	OnOffer     bool   `json:"on_offer"`
	OfferCents  *int64 `json:"offer_cents"`
}

// ownedBusiness loads the business from the route and checks the caller
// owns it.
func (h *ProductHandler) ownedBusiness(c *gin.Context) *models.Business {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return nil
	}
	b, err := h.businessRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return nil
	}
	if b.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your business"})
		return nil
	}
	return b
}

// allowAnotherActiveProduct enforces the basic-plan catalog cap: merchants
// without live premium get BasicPlanProductLimit active products per
// business.
func (h *ProductHandler) allowAnotherActiveProduct(c *gin.Context, b *models.Business) bool {
	u, err := h.userRepo.GetByID(b.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return false
	}
	if u.HasActivePremium(time.Now()) {
		return true
	}
	n, err := h.repo.CountActiveByBusiness(b.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return false
	}
	if n >= int64(domain.BasicPlanProductLimit) {
		c.JSON(http.StatusForbidden, gin.H{"error": "basic plan allows one active product per business; upgrade to premium for more"})
		return false
	}
	return true
}

func (h *ProductHandler) Create(c *gin.Context) {
	b := h.ownedBusiness(c)
	if b == nil {
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.allowAnotherActiveProduct(c, b) {
		return
	}
	p := &models.Product{
		BusinessID:  b.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		OnOffer:     req.OnOffer,
		OfferCents:  req.OfferCents,
		Active:      true,
	}
	if err := h.repo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// ListByBusiness returns the business's products; owners see inactive ones
// too.
func (h *ProductHandler) ListByBusiness(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return
	}
	b, err := h.businessRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}
	activeOnly := b.UserID != middleware.GetUserID(c)
	list, err := h.repo.ListByBusiness(b.ID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Category    *string `json:"category"`
	OnOffer     *bool   `json:"on_offer"`
	OfferCents  *int64  `json:"offer_cents"`
	Active      *bool   `json:"active"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	b := h.ownedBusiness(c)
	if b == nil {
		return
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.repo.GetByID(uint(productID))
	if err != nil || p.BusinessID != b.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Active != nil && *req.Active && !p.Active {
		// Re-activation counts against the basic-plan cap.
		if !h.allowAnotherActiveProduct(c, b) {
			return
		}
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.OnOffer != nil {
		p.OnOffer = *req.OnOffer
	}
	if req.OfferCents != nil {
		p.OfferCents = req.OfferCents
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}
