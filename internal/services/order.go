package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
)

// Allocation attempts for a unique order code before giving up.
const maxOrderCodeAttempts = 5

// OrderService owns the order lifecycle: creation with promo redemption
// and code allocation, reads, status transitions, and deletion.
type OrderService struct {
	db     *gorm.DB
	promos *PromoService
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, promos *PromoService) *OrderService {
	return &OrderService{db: db, promos: promos}
}

// OrderDraft carries everything a checkout submits. RedeemerIdentity is
// the promo redemption key (user ID for accounts, email for guests).
type OrderDraft struct {
	UserID          *uuid.UUID
	Email           string
	FullName        string
	Phone           string
	AdditionalPhone string

	Province      string
	District      string
	Ward          string
	AddressDetail string

	Items         []models.OrderItem
	PaymentMethod string

	PromoCode        string
	RedeemerIdentity string
	Authenticated    bool
}

func (d *OrderDraft) validate() error {
	if d.Email == "" || d.FullName == "" || d.Phone == "" {
		return &ValidationError{Msg: "email, full name and phone are required"}
	}
	if d.Province == "" || d.AddressDetail == "" {
		return &ValidationError{Msg: "shipping address is required"}
	}
	if len(d.Items) == 0 {
		return &ValidationError{Msg: "order must contain at least one item"}
	}
	for _, item := range d.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Msg: fmt.Sprintf("item %q has invalid quantity", item.Name)}
		}
		if item.UnitPrice < 0 {
			return &ValidationError{Msg: fmt.Sprintf("item %q has invalid price", item.Name)}
		}
	}
	switch d.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodBank:
	default:
		return &ValidationError{Msg: fmt.Sprintf("unsupported payment method %q", d.PaymentMethod)}
	}
	return nil
}

// Create validates the draft, prices the order, redeems the promo (if
// any) and persists everything as a single transaction. Order-code
// collisions within the same second are resolved by retrying with a
// suffixed code; exhaustion surfaces as ErrOrderCodeConflict. A failed
// insert rolls the promo redemption back with it, so no slot leaks.
func (s *OrderService) Create(draft OrderDraft) (*models.Order, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	var subtotal int64
	for _, item := range draft.Items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}
	shippingFee := CalculateShippingFee(draft.Province)

	var promo *models.PromoCode
	var discount int64
	if draft.PromoCode != "" {
		var err error
		promo, discount, err = s.promos.Validate(draft.PromoCode, subtotal, draft.RedeemerIdentity, draft.Authenticated)
		if err != nil {
			return nil, err
		}
	}

	for attempt := 0; attempt < maxOrderCodeAttempts; attempt++ {
		code := GenerateOrderCode()
		if attempt > 0 {
			suffixed, err := GenerateOrderCodeWithSuffix()
			if err != nil {
				return nil, err
			}
			code = suffixed
		}

		// Fresh item rows per attempt; hooks assign IDs on insert and a
		// rolled-back attempt must not leak them into the next one.
		items := make([]models.OrderItem, len(draft.Items))
		copy(items, draft.Items)
		for i := range items {
			items[i].BaseModel = models.BaseModel{}
		}

		order := models.Order{
			OrderCode:       code,
			UserID:          draft.UserID,
			Email:           draft.Email,
			FullName:        draft.FullName,
			Phone:           draft.Phone,
			AdditionalPhone: draft.AdditionalPhone,
			Province:        draft.Province,
			District:        draft.District,
			Ward:            draft.Ward,
			AddressDetail:   draft.AddressDetail,
			Items:           items,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			PromoCode:       draft.PromoCode,
			PromoAmount:     discount,
			Total:           subtotal + shippingFee - discount,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   draft.PaymentMethod,
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if promo != nil {
				if err := s.promos.Redeem(tx, promo, draft.RedeemerIdentity); err != nil {
					return err
				}
			}
			return tx.Create(&order).Error
		})
		if err == nil {
			return &order, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}

	return nil, ErrOrderCodeConflict
}

// GetByCode fetches one order with its items.
func (s *OrderService) GetByCode(code string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "order_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListFilter selects whose orders to return. All is the admin wildcard;
// otherwise orders belong to the identity when either the user ID or the
// email matches (guest orders placed before registering stay visible).
type ListFilter struct {
	All    bool
	UserID *uuid.UUID
	Email  string
	Status string
	Limit  int
	Offset int
}

// List returns matching orders, newest first, with the total count.
func (s *OrderService) List(filter ListFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if !filter.All {
		switch {
		case filter.UserID != nil && filter.Email != "":
			query = query.Where("user_id = ? OR email = ?", *filter.UserID, filter.Email)
		case filter.UserID != nil:
			query = query.Where("user_id = ?", *filter.UserID)
		default:
			query = query.Where("email = ?", filter.Email)
		}
	} else if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// StatusPatch names the transitions to apply. Empty fields are left
// alone; nothing else about an order is mutable after creation.
type StatusPatch struct {
	Status        string
	PaymentStatus string
}

// UpdateStatus applies the patch through the state machine. The update is
// conditional on the statuses read, so a concurrent transition makes the
// losing request re-check instead of silently overwriting. Repeating an
// already-applied patch is a no-op.
func (s *OrderService) UpdateStatus(code string, patch StatusPatch) (*models.Order, error) {
	order, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Status != "" && patch.Status != order.Status {
		if err := CheckStatusTransition(order.Status, patch.Status); err != nil {
			return nil, err
		}
		updates["status"] = patch.Status
	}
	if patch.PaymentStatus != "" && patch.PaymentStatus != order.PaymentStatus {
		if err := CheckPaymentTransition(order.PaymentStatus, patch.PaymentStatus); err != nil {
			return nil, err
		}
		updates["payment_status"] = patch.PaymentStatus
	}

	if len(updates) == 0 {
		return order, nil
	}
	updates["updated_at"] = time.Now()

	res := s.db.Model(&models.Order{}).
		Where("order_code = ? AND status = ? AND payment_status = ?",
			code, order.Status, order.PaymentStatus).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race with another transition; report against the
		// current state.
		current, err := s.GetByCode(code)
		if err != nil {
			return nil, err
		}
		from := current.Status
		to := patch.Status
		if to == "" {
			from = current.PaymentStatus
			to = patch.PaymentStatus
			return nil, &InvalidTransitionError{Field: "payment_status", From: from, To: to}
		}
		return nil, &InvalidTransitionError{Field: "status", From: from, To: to}
	}

	return s.GetByCode(code)
}

// Delete removes an order and its items. A missing code reports
// ErrOrderNotFound and has no side effects, so repeats are safe.
func (s *OrderService) Delete(code string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "order_code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
