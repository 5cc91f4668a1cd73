package order

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service exposes the admin panel's order operations
type Service struct {
	orders order.OrderRepository
	logger *zap.Logger
}

// NewService creates a new admin order service
func NewService(orders order.OrderRepository, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger.Named("orders"),
	}
}

// List returns a page of orders, optionally filtered by status and a
// free-text search over buyer data, tracking number and locality
func (s *Service) List(ctx context.Context, req ListFilter) (*shared.Paginated[Response], error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(req.Search),
		Filters:  make(map[string]interface{}),
	}
	if req.Status != "" {
		status := order.Status(strings.ToUpper(req.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
		}
		filter.Filters["status"] = status
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToResponse(&orders[i]))
	}

	result := shared.NewPaginated(responses, total, req.Page, req.PageSize)
	return &result, nil
}

// Get returns one order with its lines and audit log
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(o)
	return &resp, nil
}

// Update applies an admin edit to an order: a tracking number, a status
// change, or both. Fulfilling an order decrements stock exactly once;
// every persisted change is guarded against concurrent edits.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Response, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status

	tracking := strings.TrimSpace(req.TrackingNumber)
	if tracking != "" {
		if err := o.SetTracking(tracking); err != nil {
			return nil, err
		}
	}

	target := order.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	changeStatus := target != "" && target != previous

	if changeStatus {
		if err := o.Transition(target); err != nil {
			return nil, err
		}
		if target == order.StatusFulfilled {
			err = s.orders.Fulfill(ctx, o, previous)
		} else {
			err = s.orders.UpdateStatus(ctx, o, previous)
		}
	} else {
		if tracking == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Nothing to update")
		}
		err = s.orders.UpdateStatus(ctx, o, previous)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", o.Status.String()),
		zap.Bool("status_changed", changeStatus))

	// reload so the response reflects exactly what was persisted
	o, err = s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(o)
	return &resp, nil
}
