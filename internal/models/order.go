package models

import "github.com/google/uuid"

// Order lifecycle states.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	PaymentMethodCOD  = "cod"
	PaymentMethodBank = "bank"
)

// Order is an immutable snapshot of a checkout. Contact and address fields
// are copied from the request, item prices are captured at order time, and
// none of the monetary fields change after creation. Guest orders have a
// nil UserID and are identified by Email alone.
type Order struct {
	BaseModel
	OrderCode string     `gorm:"uniqueIndex" json:"order_code"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User      *User      `json:"user,omitempty"`

	Email           string `gorm:"index" json:"email"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	AdditionalPhone string `json:"additional_phone,omitempty"`

	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"address_detail"`

	Items []OrderItem `json:"items,omitempty"`

	// Amounts in VND. Total = Subtotal + ShippingFee - PromoAmount.
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shipping_fee"`
	PromoCode   string `json:"promo_code,omitempty"`
	PromoAmount int64  `json:"promo_amount"`
	Total       int64  `json:"total"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`
}

// OrderItem is a line of an order with the price captured at order time.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
}
