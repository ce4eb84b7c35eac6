package service

import (
	"encoding/json"

	"vecindo/internal/domain"
	"vecindo/internal/models"
	"vecindo/internal/repository"
	"vecindo/internal/ws"
)

// NotificationService stores notifications and fans them out to any live
// websocket connections of the target user.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub // may be nil
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	return nil
}

func (s *NotificationService) NotifyCouponRedeemed(userID uint, code, description string, redemptionID uint) error {
	return s.Notify(userID, domain.NotifCouponRedeemed, "Coupon redeemed",
		"You redeemed "+code+": "+description,
		map[string]interface{}{"redemption_id": redemptionID, "code": code})
}

func (s *NotificationService) NotifyPremiumExtended(userID uint, until string) error {
	return s.Notify(userID, domain.NotifPremiumExtended, "Premium extended",
		"Your premium access now runs until "+until,
		map[string]interface{}{"premium_until": until})
}

func (s *NotificationService) NotifyNewOrder(merchantUserID uint, orderID uint, productName string) error {
	return s.Notify(merchantUserID, domain.NotifNewOrder, "New order",
		"You received a new order for "+productName,
		map[string]interface{}{"order_id": orderID})
}
