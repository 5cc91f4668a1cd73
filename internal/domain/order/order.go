package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusFulfilled Status = "FULFILLED"
	StatusRejected  Status = "REJECTED"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusFulfilled || target == StatusRejected
	case StatusRejected:
		return target == StatusFulfilled
	case StatusFulfilled:
		return false // Terminal state
	}
	return false
}

// PaymentMethod represents how the buyer pays for an order
type PaymentMethod string

const (
	PaymentMercadoPago  PaymentMethod = "mercado_pago"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMercadoPago, PaymentBankTransfer:
		return true
	}
	return false
}

// Line is an order line with the price snapshotted at checkout time.
// Lines are immutable once the order is created.
type Line struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Size        string          `gorm:"type:varchar(20);not null"`
	Color       string          `gorm:"type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// NewLine creates a new order line
func NewLine(productID uuid.UUID, productName, size, color string, quantity int, unitPrice valueobject.Money) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if size == "" || color == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Size and color are required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Line{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		Size:        size,
		Color:       color,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		LineTotal:   unitPrice.MultiplyByInt(int64(quantity)).Amount(),
		CreatedAt:   time.Now(),
	}, nil
}

// AuditAction classifies an audit log entry
type AuditAction string

const (
	AuditOrderCreated   AuditAction = "order_created"
	AuditStatusChanged  AuditAction = "status_changed"
	AuditTrackingSet    AuditAction = "tracking_set"
	AuditStockDecrement AuditAction = "stock_decremented"
)

// AuditEntry is an append-only record of a change to an order
type AuditEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Action    AuditAction `gorm:"type:varchar(30);not null"`
	Detail    string      `gorm:"type:text;not null"`
	CreatedAt time.Time   `gorm:"index"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "order_audit_log"
}

// Order represents a confirmed purchase made at checkout
// It is the aggregate root for fulfillment and audit operations
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	BuyerName      string          `gorm:"type:varchar(150);not null"`
	BuyerDNI       string          `gorm:"type:varchar(20);not null;index"`
	BuyerEmail     string          `gorm:"type:varchar(200);not null"`
	Province       string          `gorm:"type:varchar(100);not null"`
	Locality       string          `gorm:"type:varchar(100);not null;index"`
	Street         string          `gorm:"type:varchar(120);not null"`
	Number         string          `gorm:"type:varchar(20);not null"`
	BetweenStreets string          `gorm:"type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentRef     string          `gorm:"type:varchar(100)"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TrackingNumber string          `gorm:"type:varchar(100);index"`
	Lines          []Line          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	AuditLog       []AuditEntry    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from checkout data.
// Subtotal and total are computed from the lines and shipping cost.
func NewOrder(
	orderNumber, buyerName, buyerDNI, buyerEmail string,
	address valueobject.Address,
	method PaymentMethod,
	lines []Line,
	shippingCost valueobject.Money,
) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(buyerName) == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer name cannot be empty")
	}
	if strings.TrimSpace(buyerDNI) == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer DNI cannot be empty")
	}
	if !strings.Contains(buyerEmail, "@") {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer email is not valid")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order must have at least one line")
	}
	if shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING", "Shipping cost cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       strings.TrimSpace(orderNumber),
		BuyerName:         strings.TrimSpace(buyerName),
		BuyerDNI:          strings.TrimSpace(buyerDNI),
		BuyerEmail:        strings.TrimSpace(buyerEmail),
		Province:          address.Province(),
		Locality:          address.Locality(),
		Street:            address.Street(),
		Number:            address.Number(),
		BetweenStreets:    address.BetweenStreets(),
		Phone:             address.Phone(),
		PaymentMethod:     method,
		ShippingCost:      shippingCost.Amount(),
		Status:            StatusPending,
	}

	subtotal := decimal.Zero
	for i := range lines {
		lines[i].OrderID = o.ID
		subtotal = subtotal.Add(lines[i].LineTotal)
	}
	o.Lines = lines
	o.Subtotal = subtotal
	o.Total = subtotal.Add(shippingCost.Amount())

	o.appendAudit(AuditOrderCreated, "Order created with status PENDING")

	return o, nil
}

// SetPaymentRef stores the external payment reference returned by the gateway
func (o *Order) SetPaymentRef(ref string) {
	o.PaymentRef = ref
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetTracking sets or replaces the tracking number and records the change.
// Allowed in any status; re-setting on a fulfilled order only updates the
// tracking number, it never touches stock.
func (o *Order) SetTracking(tracking string) error {
	tracking = strings.TrimSpace(tracking)
	if tracking == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}

	old := o.TrackingNumber
	if old == tracking {
		return nil
	}
	o.TrackingNumber = tracking
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	if old == "" {
		o.appendAudit(AuditTrackingSet, "Tracking number set to "+tracking)
	} else {
		o.appendAudit(AuditTrackingSet, "Tracking number changed from "+old+" to "+tracking)
	}

	return nil
}

// Transition moves the order to a new status.
// Fulfilling requires a tracking number to be present; validation happens
// before any mutation so a failed transition leaves the order untouched.
func (o *Order) Transition(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if target == o.Status {
		return shared.NewDomainError("INVALID_STATE", "Order is already "+target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot transition from "+o.Status.String()+" to "+target.String())
	}
	if target == StatusFulfilled && o.TrackingNumber == "" {
		return shared.NewDomainError("TRACKING_REQUIRED", "A tracking number is required to fulfill an order")
	}

	old := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.appendAudit(AuditStatusChanged, "Status changed from "+old.String()+" to "+target.String())

	return nil
}

// RecordStockDecrement appends an audit entry for a stock movement applied
// while fulfilling the order. Persistence applies the actual decrement.
func (o *Order) RecordStockDecrement(detail string) {
	o.appendAudit(AuditStockDecrement, detail)
}

// IsFulfilled returns true if the order has been fulfilled
func (o *Order) IsFulfilled() bool {
	return o.Status == StatusFulfilled
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyARS(o.Total)
}

// ShippingAddress rebuilds the address value object from the stored fields
func (o *Order) ShippingAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(o.Province, o.Locality, o.Street, o.Number, o.BetweenStreets, o.Phone)
}

func (o *Order) appendAudit(action AuditAction, detail string) {
	o.AuditLog = append(o.AuditLog, AuditEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
}
