package user

import (
	"errors"
	"fmt"

	"courier-desk/logger"
	userModel "courier-desk/models/user"
	"courier-desk/types"
	userTypes "courier-desk/types/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController handles the user directory: registration, listing and
// role management.
type UserController struct {
	DB *gorm.DB
}

// NewUserController creates a new user controller
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		DB: db,
	}
}

// Register creates a user record on first registration. Re-registration
// with an existing email is a no-op so the endpoint is safe to retry.
func (uc *UserController) Register(c *fiber.Ctx) error {
	var req userTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	role := req.Role
	if role == "" {
		role = userModel.RoleCustomer
	}
	if !userModel.IsValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Unknown role: %s", role),
			Data:    nil,
		})
	}

	var existing userModel.User
	err := uc.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		logger.Info(fmt.Sprintf("User with email %s already exists", req.Email))
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "User already exists",
			Data:    existing,
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Database error while checking existing user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	u := userModel.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}

	if err := uc.DB.Create(&u).Error; err != nil {
		logger.Error("Failed to create user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to add user",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("User registered successfully with ID: %d", u.ID))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "User registered successfully",
		Data: fiber.Map{
			"insertedId": u.ID,
		},
	})
}

// List returns all users, optionally filtered by role. Admin only.
func (uc *UserController) List(c *fiber.Ctx) error {
	query := uc.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []userModel.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to fetch users", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch users",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Users fetched successfully",
		Data:    users,
	})
}

// GetRole returns the stored role for an email, substituting customer
// when no role is stored.
func (uc *UserController) GetRole(c *fiber.Ctx) error {
	email := c.Params("email")

	var u userModel.User
	if err := uc.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to fetch user role", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User role fetched successfully",
		Data: fiber.Map{
			"role": u.RoleOrDefault(),
		},
	})
}

// SetRole overwrites a user's role. Admin only.
func (uc *UserController) SetRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user id",
			Data:    nil,
		})
	}

	var req userTypes.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if !userModel.IsValidRole(req.NewRole) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Unknown role: %s", req.NewRole),
			Data:    nil,
		})
	}

	var u userModel.User
	if err := uc.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	u.Role = req.NewRole
	if err := uc.DB.Save(&u).Error; err != nil {
		logger.Error("Failed to update user role", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update user role",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Role for user ID %d updated to %s", u.ID, u.Role))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User role updated successfully",
		Data:    u,
	})
}
