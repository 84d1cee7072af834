package models

import (
	"time"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/types"
)

// Order is a committed checkout with a mutable fulfillment status.
type Order struct {
	ID            string              `gorm:"column:id;primaryKey;size:32"`
	UserID        int64               `gorm:"column:user_id;not null;index"`
	ChatID        int64               `gorm:"column:chat_id;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Phone         string              `gorm:"column:phone;not null"`
	Items         types.OrderLines    `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalPrice    int64               `gorm:"column:total_price;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null"`
	DeliveryType  enums.DeliveryType  `gorm:"column:delivery_type;type:varchar(16);not null"`
	Location      *string             `gorm:"column:location"`
	ReceiptRef    *string             `gorm:"column:receipt_ref"`
	ReceiptKind   *enums.MediaKind    `gorm:"column:receipt_kind;type:varchar(16)"`
	Status        enums.OrderStatus   `gorm:"column:status;type:varchar(16);not null;default:'new';index"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
