package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/models"

	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadySubscribed    = errors.New("you already have an active subscription")
	ErrNoActiveSubscription = errors.New("you do not have an active premium subscription")
)

// SubscriptionStore is the persistence surface for plan management and the
// expiry cascade.
type SubscriptionStore interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	// ActivatePlan sets the premium plan fields and records the payment row
	// in one transaction.
	ActivatePlan(ctx context.Context, userID uint, start, end time.Time, payment *models.SubscriptionPayment) error
	SetSubscriptionStatus(ctx context.Context, userID uint, status string) error
	// ClearExpiredPlan resets the user's plan fields and deactivates every
	// product across the user's businesses, in one transaction, returning
	// the number of products deactivated.
	ClearExpiredPlan(ctx context.Context, userID uint) (int64, error)
	ExpiredPremiumUserIDs(ctx context.Context, now time.Time) ([]uint, error)
	ListPayments(ctx context.Context, userID uint) ([]models.SubscriptionPayment, error)
}

// Notifier delivers a stored notification to a user; implementations may
// also push it over a live channel.
type Notifier interface {
	Notify(userID uint, notifType, title, body string, data map[string]interface{}) error
}

type SubscriptionService struct {
	store    SubscriptionStore
	notifier Notifier // may be nil
	price    int64
	now      func() time.Time
}

func NewSubscriptionService(store SubscriptionStore, notifier Notifier, premiumPriceCents int64) *SubscriptionService {
	return &SubscriptionService{store: store, notifier: notifier, price: premiumPriceCents, now: time.Now}
}

// Subscribe activates one month of premium. A user whose current premium
// has not lapsed yet must wait for automatic renewal instead.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uint) (*models.User, *models.SubscriptionPayment, error) {
	now := s.now()
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u.HasActivePremium(now) && u.SubscriptionStatus != nil && *u.SubscriptionStatus == domain.SubscriptionActive {
		days := int(math.Ceil(u.PremiumUntil.Sub(now).Hours() / 24))
		return nil, nil, fmt.Errorf("%w: expires in %d day(s)", ErrAlreadySubscribed, days)
	}
	start := now
	end := now.AddDate(0, 1, 0)
	payment := &models.SubscriptionPayment{
		UserID:      userID,
		PlanID:      domain.PlanPremium,
		AmountCents: s.price,
		PaidAt:      start,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      domain.PaymentStatusPaid,
	}
	if err := s.store.ActivatePlan(ctx, userID, start, end, payment); err != nil {
		return nil, nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.Notify(userID, domain.NotifPremiumActive, "Premium activated",
			"Your premium plan is active until "+end.Format("2006-01-02"), nil)
	}
	u, err = s.store.GetUser(ctx, userID)
	return u, payment, err
}

// Cancel marks the subscription cancelled; premium access stays live until
// the current expiry.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.PlanID == nil || *u.PlanID != domain.PlanPremium ||
		u.SubscriptionStatus == nil || *u.SubscriptionStatus != domain.SubscriptionActive {
		return nil, ErrNoActiveSubscription
	}
	if err := s.store.SetSubscriptionStatus(ctx, userID, domain.SubscriptionCancelled); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

type StatusResult struct {
	User                *models.User
	DeactivatedProducts int64
	Reconciled          bool
}

// Status returns the subscription state, reconciling first when the stored
// plan has outlived its expiry. Reading the status is therefore enough to
// guarantee no user enjoys premium features past expiry, even without the
// periodic sweep.
func (s *SubscriptionService) Status(ctx context.Context, userID uint) (*StatusResult, error) {
	n, reconciled, err := s.ReconcileExpired(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{User: u, DeactivatedProducts: n, Reconciled: reconciled}, nil
}

// ReconcileExpired applies the consequences of a lapsed premium plan: the
// user drops to basic and every product of every business they own is
// deactivated, in one transaction. Returns the deactivated-product count
// and whether a reconciliation actually ran.
func (s *SubscriptionService) ReconcileExpired(ctx context.Context, userID uint) (int64, bool, error) {
	now := s.now()
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if u.PlanID == nil || *u.PlanID != domain.PlanPremium ||
		u.PremiumUntil == nil || !u.PremiumUntil.Before(now) {
		return 0, false, nil
	}
	n, err := s.store.ClearExpiredPlan(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	log.WithFields(log.Fields{"user_id": userID, "deactivated_products": n}).
		Info("premium subscription expired, user moved to basic plan")
	if s.notifier != nil {
		_ = s.notifier.Notify(userID, domain.NotifPremiumExpired, "Premium expired",
			"Your premium plan has expired and your products were paused.",
			map[string]interface{}{"deactivated_products": n})
	}
	return n, true, nil
}

// SweepExpired reconciles every user whose premium has lapsed, each in its
// own transaction so one failure does not block the rest.
func (s *SubscriptionService) SweepExpired(ctx context.Context) (users int, products int64, err error) {
	ids, err := s.store.ExpiredPremiumUserIDs(ctx, s.now())
	if err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		n, reconciled, rerr := s.ReconcileExpired(ctx, id)
		if rerr != nil {
			log.WithError(rerr).WithField("user_id", id).Error("subscription sweep: reconcile failed")
			continue
		}
		if reconciled {
			users++
			products += n
		}
	}
	return users, products, nil
}

// RunSweeper blocks, sweeping at the given interval until ctx is cancelled.
func (s *SubscriptionService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			users, products, err := s.SweepExpired(ctx)
			if err != nil {
				log.WithError(err).Error("subscription sweep failed")
				continue
			}
			if users > 0 {
				log.WithFields(log.Fields{"users": users, "products": products}).
					Info("subscription sweep completed")
			}
		}
	}
}

func (s *SubscriptionService) History(ctx context.Context, userID uint) ([]models.SubscriptionPayment, error) {
	return s.store.ListPayments(ctx, userID)
}
