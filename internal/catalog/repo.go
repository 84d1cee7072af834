package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/chatshop-backend/internal/repo"
	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
)

// Repository is the catalog store: products plus the shop info singleton.
type Repository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, offset, limit int) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertShopInfo(ctx context.Context, address string) error
	GetShopInfo(ctx context.Context) (*models.ShopSetting, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Insert(ctx context.Context, product *models.Product) error {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.First(ctx, &product, "product", "id = ?", id); err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products in insertion order.
func (r *repository) List(ctx context.Context, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.DB(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// Count returns every product regardless of stock.
func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return total, nil
}

func (r *repository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"stock":      stock,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return repo.Affected(res, "set stock", "product")
}

// AdjustStock applies delta in a single statement, clamping at zero.
func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.DB(ctx).Exec(`
		UPDATE products
		SET stock = CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, delta, delta, id)
	return repo.Affected(res, "adjust stock", "product")
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	return repo.Affected(res, "delete product", "product")
}

func (r *repository) UpsertShopInfo(ctx context.Context, address string) error {
	setting := models.ShopSetting{Key: models.ShopInfoKey, Address: strings.TrimSpace(address)}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"address", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert shop info")
	}
	return nil
}

func (r *repository) GetShopInfo(ctx context.Context) (*models.ShopSetting, error) {
	var setting models.ShopSetting
	if err := r.First(ctx, &setting, "shop info", "key = ?", models.ShopInfoKey); err != nil {
		return nil, err
	}
	return &setting, nil
}
