package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/middleware"
	"vecindo/internal/models"
	"vecindo/internal/repository"
	"vecindo/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type CouponHandler struct {
	svc   *service.CouponService
	repo  *repository.CouponRepository
	notif *service.NotificationService
}

func NewCouponHandler(svc *service.CouponService, repo *repository.CouponRepository, notif *service.NotificationService) *CouponHandler {
	return &CouponHandler{svc: svc, repo: repo, notif: notif}
}

type couponCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// reasonCode maps a validation failure to a stable machine-readable code.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		return "coupon_not_found"
	case errors.Is(err, service.ErrCouponDisabled):
		return "coupon_disabled"
	case errors.Is(err, service.ErrCouponNotYetAvailable):
		return "not_yet_available"
	case errors.Is(err, service.ErrCouponExpired):
		return "expired"
	case errors.Is(err, service.ErrRedemptionLimitReached):
		return "redemption_limit_reached"
	case errors.Is(err, service.ErrWrongAudience):
		return "wrong_audience"
	case errors.Is(err, service.ErrPerUserLimitReached):
		return "per_user_limit_reached"
	case errors.Is(err, service.ErrBenefitNotFound):
		return "benefit_not_found"
	case errors.Is(err, service.ErrBenefitConsumed):
		return "already_consumed"
	default:
		return "internal_error"
	}
}

func couponSummary(c *models.Coupon, res *service.ValidationResult) gin.H {
	out := gin.H{
		"id":            c.ID,
		"code":          c.Code,
		"description":   c.Description,
		"benefit_kind":  c.BenefitKind,
		"benefit_value": c.BenefitValue,
		"audience":      c.Audience,
		"business_id":   c.BusinessID,
		"product_id":    c.ProductID,
		"valid_until":   c.ValidUntil,
	}
	if res != nil {
		out["remaining_uses"] = res.RemainingGlobal
		out["remaining_user_uses"] = res.RemainingUser
	}
	return out
}

// Validate pre-checks a coupon code without consuming anything.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req couponCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coupon code is required"})
		return
	}
	userID := middleware.GetUserID(c)
	res, err := h.svc.Validate(c.Request.Context(), req.Code, userID, middleware.GetRole(c))
	if err != nil {
		log.WithError(err).Error("coupon validation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !res.Valid {
		reasons := make([]string, 0, len(res.Reasons))
		for _, r := range res.Reasons {
			reasons = append(reasons, r.Error())
		}
		status := http.StatusOK
		if errors.Is(res.Reasons[0], service.ErrCouponNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"valid":   false,
			"reason":  reasonCode(res.Reasons[0]),
			"error":   res.Reasons[0].Error(),
			"reasons": reasons,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "coupon": couponSummary(res.Coupon, res)})
}

// Redeem atomically redeems a coupon for the authenticated user.
func (h *CouponHandler) Redeem(c *gin.Context) {
	var req couponCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coupon code is required"})
		return
	}
	userID := middleware.GetUserID(c)
	res, err := h.svc.Redeem(c.Request.Context(), req.Code, userID, middleware.GetRole(c))
	if err != nil {
		switch code := reasonCode(err); code {
		case "coupon_not_found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "reason": code})
		case "internal_error":
			log.WithError(err).Error("coupon redemption failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": code})
		}
		return
	}
	if h.notif != nil {
		_ = h.notif.NotifyCouponRedeemed(userID, strings.ToUpper(strings.TrimSpace(req.Code)),
			res.Benefit.Description, res.Redemption.ID)
		if res.NewPremiumUntil != nil {
			_ = h.notif.NotifyPremiumExtended(userID, res.NewPremiumUntil.Format("2006-01-02"))
		}
	}
	out := gin.H{
		"redemption_id": res.Redemption.ID,
		"benefit": gin.H{
			"kind":       res.Benefit.BenefitKind,
			"value":      res.Benefit.Value,
			"expires_at": res.Benefit.ExpiresAt,
		},
	}
	if res.NewPremiumUntil != nil {
		out["new_premium_until"] = res.NewPremiumUntil
	}
	c.JSON(http.StatusOK, out)
}

type consumeBenefitRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// ConsumeBenefit marks a discount benefit as applied to an order.
func (h *CouponHandler) ConsumeBenefit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid benefit id"})
		return
	}
	var req consumeBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return
	}
	userID := middleware.GetUserID(c)
	err = h.svc.ConsumeBenefit(c.Request.Context(), uint(id), userID, req.OrderID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, service.ErrBenefitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "benefit_not_found"})
	case errors.Is(err, service.ErrBenefitConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": "already_consumed"})
	default:
		log.WithError(err).Error("benefit consumption failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// MyRedemptions lists the authenticated user's redeemed coupons.
func (h *CouponHandler) MyRedemptions(c *gin.Context) {
	list, err := h.repo.ListUserRedemptions(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": list})
}

// ActiveBenefits lists active, unexpired benefits for the authenticated user.
func (h *CouponHandler) ActiveBenefits(c *gin.Context) {
	list, err := h.repo.ListActiveBenefits(middleware.GetUserID(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"benefits": list})
}

// Admin surface.

func (h *CouponHandler) AdminList(c *gin.Context) {
	list, err := h.repo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": list})
}

type createCouponRequest struct {
	Code                  string  `json:"code" binding:"required,min=3,max=40"`
	Description           string  `json:"description" binding:"required"`
	BenefitKind           string  `json:"benefit_kind" binding:"required,oneof=percentage_discount fixed_discount free_shipping free_premium_days"`
	BenefitValue          float64 `json:"benefit_value" binding:"required,gt=0"`
	Audience              string  `json:"audience" binding:"omitempty,oneof=customers merchants both"`
	BusinessID            *uint   `json:"business_id"`
	ProductID             *uint   `json:"product_id"`
	MaxRedemptions        *int    `json:"max_redemptions"`
	MaxRedemptionsPerUser int     `json:"max_redemptions_per_user"`
	ValidFrom             *string `json:"valid_from"`
	ValidUntil            *string `json:"valid_until"`
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *CouponHandler) AdminCreate(c *gin.Context) {
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validFrom, err := parseTimePtr(req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_from (use RFC 3339)"})
		return
	}
	validUntil, err := parseTimePtr(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until (use RFC 3339)"})
		return
	}
	if _, err := h.repo.FindByCode(c.Request.Context(), req.Code); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a coupon with that code already exists"})
		return
	}
	audience := req.Audience
	if audience == "" {
		audience = domain.AudienceBoth
	}
	perUser := req.MaxRedemptionsPerUser
	if perUser <= 0 {
		perUser = 1
	}
	adminID := middleware.GetUserID(c)
	coupon := &models.Coupon{
		Code:                  strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:           req.Description,
		BenefitKind:           req.BenefitKind,
		BenefitValue:          req.BenefitValue,
		Audience:              audience,
		BusinessID:            req.BusinessID,
		ProductID:             req.ProductID,
		MaxRedemptions:        req.MaxRedemptions,
		MaxRedemptionsPerUser: perUser,
		ValidFrom:             validFrom,
		ValidUntil:            validUntil,
		Active:                true,
		CreatedBy:             &adminID,
	}
	if err := h.repo.Create(coupon); err != nil {
		log.WithError(err).Error("coupon creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

type updateCouponRequest struct {
	Active         *bool   `json:"active"`
	MaxRedemptions *int    `json:"max_redemptions"`
	ValidUntil     *string `json:"valid_until"`
}

// AdminUpdate edits the only mutable coupon fields: active, max_redemptions
// and valid_until.
func (h *CouponHandler) AdminUpdate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}
	var req updateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validUntil, err := parseTimePtr(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until (use RFC 3339)"})
		return
	}
	if err := h.repo.AdminUpdate(uint(id), req.Active, req.MaxRedemptions, validUntil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CouponHandler) AdminDelete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}
	if err := h.repo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
