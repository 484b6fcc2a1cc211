package models

import "time"

type ShippingAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	FullName    string    `gorm:"not null" json:"full_name"`
	Phone       string    `json:"phone"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `gorm:"default:'Nigeria'" json:"country"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}
