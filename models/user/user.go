package user

import (
	"time"
)

// Roles recognised by the role guard. Any user without a stored role is
// treated as a customer.
const (
	RoleAdmin         = "admin"
	RoleDeliveryAgent = "delivery_agent"
	RoleCustomer      = "customer"
)

// User represents a registered account keyed by the email the identity
// provider verifies.
type User struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Name  string `gorm:"type:varchar(255)" json:"name"`
	Role  string `gorm:"type:varchar(30);default:customer" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the User model
func (User) TableName() string {
	return "users"
}

// RoleOrDefault returns the stored role, falling back to customer.
func (u User) RoleOrDefault() string {
	if u.Role == "" {
		return RoleCustomer
	}
	return u.Role
}

// IsValidRole reports whether role is one of the known access tiers.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDeliveryAgent, RoleCustomer:
		return true
	default:
		return false
	}
}
