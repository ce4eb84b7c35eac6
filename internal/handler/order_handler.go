package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/middleware"
	"vecindo/internal/models"
	"vecindo/internal/repository"
	"vecindo/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type OrderHandler struct {
	repo         *repository.OrderRepository
	productRepo  *repository.ProductRepository
	businessRepo *repository.BusinessRepository
	couponRepo   *repository.CouponRepository
	couponSvc    *service.CouponService
	notif        *service.NotificationService
}

func NewOrderHandler(repo *repository.OrderRepository, productRepo *repository.ProductRepository, businessRepo *repository.BusinessRepository, couponRepo *repository.CouponRepository, couponSvc *service.CouponService, notif *service.NotificationService) *OrderHandler {
	return &OrderHandler{
		repo:         repo,
		productRepo:  productRepo,
		businessRepo: businessRepo,
		couponRepo:   couponRepo,
		couponSvc:    couponSvc,
		notif:        notif,
	}
}

type createOrderRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,gt=0"`
	Notes     string `json:"notes"`
	// Optional discount benefit from a redeemed coupon, consumed at checkout.
	BenefitID *uint `json:"benefit_id"`
}

func discountFor(kind string, value float64, totalCents int64) int64 {
	switch kind {
	case domain.BenefitPercentageDiscount:
		d := int64(float64(totalCents) * value / 100)
		if d > totalCents {
			d = totalCents
		}
		return d
	case domain.BenefitFixedDiscount:
		d := int64(value)
		if d > totalCents {
			d = totalCents
		}
		return d
	default:
		// free_shipping affects delivery charges, which are settled by the
		// merchant; the order total is unchanged.
		return 0
	}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	p, err := h.productRepo.GetByID(req.ProductID)
	if err != nil || !p.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	unit := p.PriceCents
	if p.OnOffer && p.OfferCents != nil {
		unit = *p.OfferCents
	}
	total := unit * int64(qty)

	var benefit *models.ActiveBenefit
	if req.BenefitID != nil {
		benefit, err = h.couponRepo.GetActiveUserBenefit(*req.BenefitID, userID, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "benefit not available"})
			return
		}
	}

	o := &models.Order{
		UserID:     userID,
		BusinessID: p.BusinessID,
		ProductID:  p.ID,
		Quantity:   qty,
		TotalCents: total,
		Status:     domain.OrderStatusPending,
		Notes:      req.Notes,
	}
	if benefit != nil {
		o.DiscountCents = discountFor(benefit.BenefitKind, benefit.Value, total)
		o.TotalCents = total - o.DiscountCents
	}
	if err := h.repo.Create(o); err != nil {
		log.WithError(err).Error("order creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if benefit != nil {
		// The engine guards double consumption; losing the race means the
		// discount no longer applies, so the order falls back to full price.
		err := h.couponSvc.ConsumeBenefit(c.Request.Context(), benefit.ID, userID, o.ID)
		if err != nil {
			if errors.Is(err, service.ErrBenefitConsumed) || errors.Is(err, service.ErrBenefitNotFound) {
				o.DiscountCents = 0
				o.TotalCents = total
				_ = h.repo.UpdateTotals(o.ID, o.TotalCents, o.DiscountCents)
				c.JSON(http.StatusConflict, gin.H{"error": "already_consumed", "order": o})
				return
			}
			log.WithError(err).Error("benefit consumption failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	if h.notif != nil {
		if b, err := h.businessRepo.GetByID(p.BusinessID); err == nil {
			_ = h.notif.NotifyNewOrder(b.UserID, o.ID, p.Name)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"order": o})
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	list, err := h.repo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// ListReceived returns orders placed against any of the merchant's
// businesses.
func (h *OrderHandler) ListReceived(c *gin.Context) {
	list, err := h.repo.ListByMerchant(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected delivered"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	o, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	b, err := h.businessRepo.GetByID(o.BusinessID)
	if err != nil || b.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.UpdateStatus(o.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
