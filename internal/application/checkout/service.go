package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
)

const shippingUnavailableWarning = "Shipping could not be quoted, the cost will be settled separately"

// Service turns a session cart into a confirmed order.
// External providers degrade gracefully: a carrier or gateway outage
// never blocks checkout, it only adds a warning to the confirmation.
type Service struct {
	carts   *cartapp.Service
	orders  order.OrderRepository
	quoter  shipping.Quoter
	gateway payment.Gateway
	logger  *zap.Logger
}

// NewService creates a new checkout service
func NewService(carts *cartapp.Service, orders order.OrderRepository, quoter shipping.Quoter, gateway payment.Gateway, logger *zap.Logger) *Service {
	return &Service{
		carts:   carts,
		orders:  orders,
		quoter:  quoter,
		gateway: gateway,
		logger:  logger.Named("checkout"),
	}
}

// Quote asks the carrier what shipping to the given address costs
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	address, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}

	quote, err := s.quoter.QuoteShipping(ctx, address)
	if err != nil {
		s.logger.Warn("shipping quote failed", zap.Error(err))
		return &QuoteResponse{
			Cost:    valueobject.ZeroARS().Amount(),
			Warning: shippingUnavailableWarning,
		}, nil
	}

	return &QuoteResponse{
		Cost:    quote.Cost.Amount(),
		Carrier: quote.Carrier,
	}, nil
}

// GetOrder returns the shopper-facing view of a placed order
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderStatusView, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderStatusLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderStatusLine{
			ProductName: l.ProductName,
			Size:        l.Size,
			Color:       l.Color,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}

	return &OrderStatusView{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status.String(),
		TrackingNumber: o.TrackingNumber,
		Lines:          lines,
		Subtotal:       o.Subtotal,
		ShippingCost:   o.ShippingCost,
		Total:          o.Total,
		CreatedAt:      o.CreatedAt,
	}, nil
}

// PlaceOrder converts the session cart into a pending order. The cart
// is reconciled first, lines snapshot current prices, and the cart is
// cleared once the order is persisted.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, req PlaceOrderRequest) (*OrderConfirmation, error) {
	method := order.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	address, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}

	view, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "The cart is empty")
	}

	var warnings []string
	warnings = append(warnings, view.Warnings...)

	lines := make([]order.Line, 0, len(view.Lines))
	for _, l := range view.Lines {
		line, err := order.NewLine(l.ProductID, l.ProductName, l.Size, l.Color, l.Quantity, valueobject.NewMoneyARS(l.UnitPrice))
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}

	shippingCost := valueobject.ZeroARS()
	quote, err := s.quoter.QuoteShipping(ctx, address)
	if err != nil {
		s.logger.Warn("shipping quote failed during checkout",
			zap.String("session_id", sessionID), zap.Error(err))
		warnings = append(warnings, shippingUnavailableWarning)
	} else {
		shippingCost = quote.Cost
	}

	orderNumber, err := s.orders.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(orderNumber, req.BuyerName, req.BuyerDNI, req.BuyerEmail, address, method, lines, shippingCost)
	if err != nil {
		return nil, err
	}

	if method == order.PaymentMercadoPago {
		result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
			OrderNumber:    o.OrderNumber,
			Amount:         o.TotalMoney(),
			PayerEmail:     o.BuyerEmail,
			Description:    fmt.Sprintf("Order %s", o.OrderNumber),
			IdempotencyKey: o.OrderNumber,
		})
		switch {
		case err != nil:
			s.logger.Warn("payment charge failed",
				zap.String("order_number", o.OrderNumber), zap.Error(err))
			warnings = append(warnings, "Payment could not be processed, we will contact you to complete it")
		case !result.Approved:
			o.SetPaymentRef(result.Reference)
			warnings = append(warnings, "Payment is pending confirmation")
		default:
			o.SetPaymentRef(result.Reference)
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// the order exists, a stale cart is only a nuisance
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("payment_method", string(method)),
		zap.String("total", o.Total.String()))

	return &OrderConfirmation{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		Status:       o.Status.String(),
		Subtotal:     o.Subtotal,
		ShippingCost: o.ShippingCost,
		Total:        o.Total,
		PaymentRef:   o.PaymentRef,
		CreatedAt:    o.CreatedAt,
		Warnings:     warnings,
	}, nil
}
