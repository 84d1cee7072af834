package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/chatshop-backend/internal/cart"
	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
	"github.com/angelmondragon/chatshop-backend/pkg/types"
)

const defaultListLimit = 20

// Service covers checkout finalization and the admin fulfillment workflow.
type Service interface {
	Finalize(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	Order(ctx context.Context, id string) (*models.Order, error)
	Transition(ctx context.Context, id string, target enums.OrderStatus) (*models.Order, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error)
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

// CheckoutInput is everything collected by the checkout dialog.
type CheckoutInput struct {
	UserID       int64
	ChatID       int64
	CustomerName string
	Phone        string
	Cart         cart.Cart
	Delivery     enums.DeliveryType
	Location     string
	ReceiptRef   string
	ReceiptKind  enums.MediaKind
}

// CheckoutResult is the created order plus the lines whose stock decrement
// failed. Failed lines do not undo the order.
type CheckoutResult struct {
	Order       *models.Order
	FailedLines types.OrderLines
}

type service struct {
	repo      Repository
	stock     StockDecrementer
	ids       IDGenerator
	logg      *logger.Logger
	metrics   *metrics.ShopMetrics
	listLimit int
}

// ServiceParams groups the orders service dependencies.
type ServiceParams struct {
	Repo      Repository
	Stock     StockDecrementer
	IDs       IDGenerator
	Logger    *logger.Logger
	Metrics   *metrics.ShopMetrics
	ListLimit int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	if params.IDs == nil {
		return nil, fmt.Errorf("order id generator required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	limit := params.ListLimit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return &service{
		repo:      params.Repo,
		stock:     params.Stock,
		ids:       params.IDs,
		logg:      params.Logger,
		metrics:   params.Metrics,
		listLimit: limit,
	}, nil
}

func validateCheckout(input CheckoutInput) error {
	switch {
	case input.Cart.IsEmpty():
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	case strings.TrimSpace(input.Phone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	case !input.Delivery.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery type is required")
	case input.Delivery == enums.DeliveryTypeDelivery && strings.TrimSpace(input.Location) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required for delivery")
	case input.Delivery.PaymentMethod().RequiresReceipt() && input.ReceiptRef == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "payment receipt is required")
	}
	return nil
}

// Finalize records the order and then decrements stock line by line. The
// order row goes first so a failed insert leaves stock untouched; decrement
// failures after that are logged and reported, never rolled back.
func (s *service) Finalize(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	lines := input.Cart.Snapshot()
	order := &models.Order{
		ID:            s.ids.Next(),
		UserID:        input.UserID,
		ChatID:        input.ChatID,
		CustomerName:  input.CustomerName,
		Phone:         strings.TrimSpace(input.Phone),
		Items:         lines,
		TotalPrice:    lines.Total(),
		PaymentMethod: input.Delivery.PaymentMethod(),
		DeliveryType:  input.Delivery,
		Status:        enums.OrderStatusNew,
	}
	if input.Delivery == enums.DeliveryTypeDelivery {
		location := strings.TrimSpace(input.Location)
		order.Location = &location
	}
	if input.ReceiptRef != "" {
		ref, kind := input.ReceiptRef, input.ReceiptKind
		if !kind.IsValid() {
			kind = enums.MediaKindImage
		}
		order.ReceiptRef = &ref
		order.ReceiptKind = &kind
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": order.ID, "user_id": input.UserID})
	result := &CheckoutResult{Order: order}
	for _, line := range lines {
		if err := s.stock.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			result.FailedLines = append(result.FailedLines, line)
			s.metrics.IncStockDecrementFailure()
			lineCtx := s.logg.WithFields(ctx, map[string]any{"product_id": line.ProductID.String(), "quantity": line.Quantity})
			s.logg.WarnErr(lineCtx, "stock decrement failed during checkout", err)
		}
	}

	s.metrics.IncOrderPlaced(order.DeliveryType.String())
	s.logg.Info(s.logg.WithField(ctx, "total_price", order.TotalPrice), "order placed")
	return result, nil
}

func (s *service) Order(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// Transition applies an admin status change. Only the next linear status or
// canceled are accepted.
func (s *service) Transition(ctx context.Context, id string, target enums.OrderStatus) (*models.Order, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
			WithDetails(map[string]any{"from": order.Status, "to": target})
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, target); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = target
	s.metrics.IncTransition(target.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id,
		"from":     from.String(),
		"to":       target.String(),
	}), "order status updated")
	return order, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	return s.repo.ListByStatus(ctx, status, s.listLimit)
}

func (s *service) StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return s.repo.CountByStatus(ctx)
}
