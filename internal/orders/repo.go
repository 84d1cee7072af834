package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/chatshop-backend/internal/repo"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Insert(ctx context.Context, order *models.Order) error {
	err := r.DB(ctx).Create(order).Error
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order id already taken").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.First(ctx, &order, "order", "id = ?", id); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order from one status to another only if it still
// holds from, so concurrent admins cannot both apply a transition.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to enums.OrderStatus) error {
	res := r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{
			"status":     to,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update order status")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").
		WithDetails(map[string]any{"expected": from, "target": to})
}

// ListByStatus returns the newest orders first.
func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Total  int64
	}
	err := r.DB(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, status := range enums.OrderStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
