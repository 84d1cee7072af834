package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

// Repository is the order store.
type Repository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to enums.OrderStatus) error
	ListByStatus(ctx context.Context, status enums.OrderStatus, limit int) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

// StockDecrementer removes sold units from the catalog, clamping at zero.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// IDGenerator issues customer-facing order ids.
type IDGenerator interface {
	Next() string
}
