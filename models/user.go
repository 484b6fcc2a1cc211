package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a request string to a Role. Empty defaults to customer.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return Role(s), true
	case "":
		return RoleCustomer, true
	default:
		return "", false
	}
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:VARCHAR(10);default:'customer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
