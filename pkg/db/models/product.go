package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

// Product is a catalog listing. Price is in the smallest currency unit.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Price       int64           `gorm:"column:price;not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	MediaRef    string          `gorm:"column:media_ref;not null"`
	MediaKind   enums.MediaKind `gorm:"column:media_kind;type:varchar(16);not null;default:'image'"`
	Description string          `gorm:"column:description;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns the id in application code so every driver behaves alike.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
