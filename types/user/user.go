package user

import (
	"fmt"
)

// RegisterRequest is the payload for the public registration endpoint.
// Registration is idempotent: an existing email is never mutated.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=255"`
	Role  string `json:"role" validate:"omitempty,oneof=admin delivery_agent customer"`
}

func (r RegisterRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// UpdateRoleRequest overwrites a user's role. Admin only.
type UpdateRoleRequest struct {
	NewRole string `json:"newRole" validate:"required,oneof=admin delivery_agent customer"`
}

func (r UpdateRoleRequest) Validate() error {
	if r.NewRole == "" {
		return fmt.Errorf("newRole is required")
	}
	return nil
}
