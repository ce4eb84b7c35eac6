package handler

import (
	"errors"
	"net/http"

	"vecindo/internal/middleware"
	"vecindo/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type SubscriptionHandler struct {
	svc *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Subscribe activates one month of premium for the authenticated user.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	u, payment, err := h.svc.Subscribe(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("subscription failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "payment": payment})
}

// Cancel marks the subscription cancelled; access remains until expiry.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	u, err := h.svc.Cancel(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSubscription) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("subscription cancel failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Status returns the subscription state; an expired premium plan is
// reconciled before answering.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	res, err := h.svc.Status(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		log.WithError(err).Error("subscription status failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := gin.H{
		"plan_id":             res.User.PlanID,
		"subscription_status": res.User.SubscriptionStatus,
		"subscribed_at":       res.User.SubscribedAt,
		"premium_until":       res.User.PremiumUntil,
	}
	if res.Reconciled {
		out["deactivated_products"] = res.DeactivatedProducts
	}
	c.JSON(http.StatusOK, out)
}

// History lists the user's subscription payments.
func (h *SubscriptionHandler) History(c *gin.Context) {
	list, err := h.svc.History(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}
