package domain

const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Coupon audience: which account types may redeem.
const (
	AudienceCustomers = "customers"
	AudienceMerchants = "merchants"
	AudienceBoth      = "both"
)

const (
	BenefitPercentageDiscount = "percentage_discount"
	BenefitFixedDiscount      = "fixed_discount"
	BenefitFreeShipping       = "free_shipping"
	BenefitFreePremiumDays    = "free_premium_days"
)

const (
	RedemptionActive   = "active"
	RedemptionConsumed = "consumed"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// PlanPremium is the only paid plan; basic accounts have a nil plan_id.
const PlanPremium = 2

const (
	PaymentStatusPaid = "paid"

	PaymentMethodFlow   = "flow"
	PaymentMethodCoupon = "coupon"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusRejected  = "rejected"
	OrderStatusDelivered = "delivered"
)

const (
	NotifCouponRedeemed  = "COUPON_REDEEMED"
	NotifPremiumActive   = "PREMIUM_ACTIVATED"
	NotifPremiumExtended = "PREMIUM_EXTENDED"
	NotifPremiumExpired  = "PREMIUM_EXPIRED"
	NotifNewOrder        = "NEW_ORDER"
)

// BasicPlanProductLimit caps active products per business for merchants
// without a premium subscription.
const BasicPlanProductLimit = 1
