package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// ListFilter is the input for listing orders in the admin panel
type ListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// UpdateRequest is the input for the admin order update operation.
// Both fields are optional: tracking alone, status alone, or both in
// one call, in which case the tracking number is applied first.
type UpdateRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// LineResponse is the API representation of an order line
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// AuditEntryResponse is the API representation of an audit log entry
type AuditEntryResponse struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is the API representation of an order
type Response struct {
	ID             uuid.UUID            `json:"id"`
	OrderNumber    string               `json:"order_number"`
	BuyerName      string               `json:"buyer_name"`
	BuyerDNI       string               `json:"buyer_dni"`
	BuyerEmail     string               `json:"buyer_email"`
	Province       string               `json:"province"`
	Locality       string               `json:"locality"`
	Street         string               `json:"street"`
	Number         string               `json:"number"`
	BetweenStreets string               `json:"between_streets,omitempty"`
	Phone          string               `json:"phone,omitempty"`
	PaymentMethod  string               `json:"payment_method"`
	PaymentRef     string               `json:"payment_ref,omitempty"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	ShippingCost   decimal.Decimal      `json:"shipping_cost"`
	Total          decimal.Decimal      `json:"total"`
	Status         string               `json:"status"`
	TrackingNumber string               `json:"tracking_number,omitempty"`
	Lines          []LineResponse       `json:"lines"`
	AuditLog       []AuditEntryResponse `json:"audit_log,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToResponse maps an order to its API representation
func ToResponse(o *order.Order) Response {
	lines := make([]LineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Size:        l.Size,
			Color:       l.Color,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	audit := make([]AuditEntryResponse, 0, len(o.AuditLog))
	for _, e := range o.AuditLog {
		audit = append(audit, AuditEntryResponse{
			Action:    string(e.Action),
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}

	return Response{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		BuyerName:      o.BuyerName,
		BuyerDNI:       o.BuyerDNI,
		BuyerEmail:     o.BuyerEmail,
		Province:       o.Province,
		Locality:       o.Locality,
		Street:         o.Street,
		Number:         o.Number,
		BetweenStreets: o.BetweenStreets,
		Phone:          o.Phone,
		PaymentMethod:  string(o.PaymentMethod),
		PaymentRef:     o.PaymentRef,
		Subtotal:       o.Subtotal,
		ShippingCost:   o.ShippingCost,
		Total:          o.Total,
		Status:         o.Status.String(),
		TrackingNumber: o.TrackingNumber,
		Lines:          lines,
		AuditLog:       audit,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
