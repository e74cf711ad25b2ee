package parcel

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courier-desk/logger"
	parcelModel "courier-desk/models/parcel"
	"courier-desk/types"
	parcelTypes "courier-desk/types/parcel"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// adminListLimit caps the admin overview at the most recent bookings.
// A deliberate limit, not a pagination mechanism.
const adminListLimit = 10

// ParcelController owns the parcel lifecycle: booking, agent assignment,
// status transitions and the append-only status history.
type ParcelController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewParcelController creates a new parcel controller
func NewParcelController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ParcelController {
	return &ParcelController{
		DB:     db,
		Logger: asyncLogger,
	}
}

// respond sends the response and queues an audit entry for it.
func (pc *ParcelController) respond(c *fiber.Ctx, status int, response types.ApiResponse) error {
	if pc.Logger != nil {
		responseBody, _ := json.Marshal(response)
		pc.Logger.Log(types.LogEntry{
			Method:       c.Method(),
			URL:          c.OriginalURL(),
			RequestBody:  string(c.Body()),
			ResponseBody: string(responseBody),
			StatusCode:   status,
			CreatedAt:    time.Now(),
		})
	}
	return c.Status(status).JSON(response)
}

// withStatusLogs preloads a parcel's history in chronological order.
func withStatusLogs(db *gorm.DB) *gorm.DB {
	return db.Preload("StatusLogs", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("timestamp ASC, id ASC")
	})
}

// Book creates a cash-on-delivery parcel with an initial Created history
// entry.
func (pc *ParcelController) Book(c *fiber.Ctx) error {
	var req parcelTypes.BookParcelRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	now := time.Now().UTC()
	p := parcelModel.Parcel{
		SenderEmail:     req.SenderEmail,
		SenderName:      req.SenderName,
		ReceiverName:    req.ReceiverName,
		ReceiverAddress: req.ReceiverAddress,
		DeliveryStatus:  parcelModel.StatusCreated,
		PaymentMethod:   parcelModel.PaymentMethodCOD,
		PaymentStatus:   parcelModel.PaymentUnpaid,
		TotalCost:       req.TotalCost,
		StatusLogs: []parcelModel.StatusLog{
			{Status: parcelModel.StatusCreated.String(), Timestamp: now},
		},
	}

	if err := pc.DB.Create(&p).Error; err != nil {
		logger.Error("Failed to book parcel", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to book parcel",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Parcel booked successfully with ID: %d", p.ID))

	return pc.respond(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Parcel booked successfully",
		Data: fiber.Map{
			"insertedId": p.ID,
		},
	})
}

// ListAll returns the most recent bookings for the admin overview.
func (pc *ParcelController) ListAll(c *fiber.Ctx) error {
	var parcels []parcelModel.Parcel
	err := withStatusLogs(pc.DB).
		Order("created_at DESC").
		Limit(adminListLimit).
		Find(&parcels).Error
	if err != nil {
		logger.Error("Failed to fetch parcels", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch parcels",
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcels fetched successfully",
		Data:    parcels,
	})
}

// ListMine returns all parcels booked by a sender, newest first.
func (pc *ParcelController) ListMine(c *fiber.Ctx) error {
	senderEmail := c.Query("email")
	if senderEmail == "" {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Email query parameter is required",
			Data:    nil,
		})
	}

	var parcels []parcelModel.Parcel
	err := withStatusLogs(pc.DB).
		Where("sender_email = ?", senderEmail).
		Order("created_at DESC").
		Find(&parcels).Error
	if err != nil {
		logger.Error("Failed to fetch parcels for user", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch parcels",
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcels fetched successfully",
		Data:    parcels,
	})
}

// ListAssigned returns all parcels assigned to an agent, newest first.
func (pc *ParcelController) ListAssigned(c *fiber.Ctx) error {
	agentEmail := c.Query("email")
	if agentEmail == "" {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Email query parameter is required",
			Data:    nil,
		})
	}

	var parcels []parcelModel.Parcel
	err := withStatusLogs(pc.DB).
		Where("assigned_agent_email = ?", agentEmail).
		Order("created_at DESC").
		Find(&parcels).Error
	if err != nil {
		logger.Error("Failed to fetch assigned parcels", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch assigned parcels",
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Assigned parcels fetched successfully",
		Data:    parcels,
	})
}

// AssignAgent attaches a delivery agent to a parcel, forces the status to
// Assigned and appends the matching history entry. Re-assignment is
// allowed until the parcel reaches a terminal status.
func (pc *ParcelController) AssignAgent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	var req parcelTypes.AssignAgentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var p parcelModel.Parcel
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.respond(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find parcel", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if p.DeliveryStatus.IsTerminal() {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Cannot assign an agent to a parcel that is already %s", p.DeliveryStatus),
			Data:    nil,
		})
	}

	now := time.Now().UTC()
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"assigned_agent_id":    req.AssignedAgentID,
			"assigned_agent_email": req.AssignedAgentEmail,
			"delivery_status":      parcelModel.StatusAssigned,
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}

		statusLog := parcelModel.StatusLog{
			ParcelID:  p.ID,
			Status:    parcelModel.StatusAssigned.String(),
			Timestamp: now,
		}
		return tx.Create(&statusLog).Error
	})
	if err != nil {
		logger.Error("Failed to assign agent", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to assign agent",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Agent %s assigned to parcel ID: %d", req.AssignedAgentEmail, p.ID))

	var assigned parcelModel.Parcel
	if err := withStatusLogs(pc.DB).First(&assigned, p.ID).Error; err != nil {
		logger.Error("Failed to load parcel after assignment", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Agent assigned but failed to retrieve parcel",
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Agent assigned successfully",
		Data:    assigned,
	})
}

// UpdateStatus moves a parcel to a new delivery status and appends the
// matching history entry. Delivering an unpaid COD parcel also marks the
// payment collected and appends a payment_received entry bearing the same
// timestamp. The whole mutation is one transaction.
func (pc *ParcelController) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	var req parcelTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	newStatus := parcelModel.DeliveryStatus(req.NewStatus)
	if !newStatus.IsValid() {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Unknown delivery status: %s", req.NewStatus),
			Data:    nil,
		})
	}

	var p parcelModel.Parcel
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.respond(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find parcel", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if newStatus == parcelModel.StatusFailed && !p.DeliveryStatus.CanFail() {
		return pc.respond(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Cannot mark parcel as Failed before it is Picked Up or In Transit",
			Data:    nil,
		})
	}

	now := time.Now().UTC()
	collectCOD := newStatus == parcelModel.StatusDelivered &&
		p.PaymentMethod == parcelModel.PaymentMethodCOD &&
		p.PaymentStatus != parcelModel.PaymentPaid

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"delivery_status": newStatus,
		}
		statusLogs := []parcelModel.StatusLog{
			{ParcelID: p.ID, Status: newStatus.String(), Timestamp: now},
		}

		if collectCOD {
			updates["payment_status"] = parcelModel.PaymentPaid
			statusLogs = append(statusLogs, parcelModel.StatusLog{
				ParcelID:  p.ID,
				Status:    parcelModel.LogPaymentReceived,
				Timestamp: now,
			})
		}

		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&statusLogs).Error
	})
	if err != nil {
		logger.Error("Failed to update parcel status", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update parcel status",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Parcel ID %d moved to status %s", p.ID, newStatus))

	var updated parcelModel.Parcel
	if err := withStatusLogs(pc.DB).First(&updated, p.ID).Error; err != nil {
		logger.Error("Failed to load parcel after status update", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Status updated but failed to retrieve parcel",
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel status updated successfully",
		Data:    updated,
	})
}
