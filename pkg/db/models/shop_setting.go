package models

import "time"

// ShopInfoKey identifies the singleton shop info row.
const ShopInfoKey = "info"

// ShopSetting holds shop metadata keyed by a fixed singleton key.
type ShopSetting struct {
	Key       string    `gorm:"column:key;primaryKey;size:32"`
	Address   string    `gorm:"column:address;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShopSetting) TableName() string { return "shop_settings" }
