package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"courier-desk/httpServices/stripe"
	"courier-desk/logger"
	parcelModel "courier-desk/models/parcel"
	paymentModel "courier-desk/models/payment"
	"courier-desk/types"
	paymentTypes "courier-desk/types/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// intentCurrency is the fixed currency for payment intents.
const intentCurrency = "usd"

// PaymentController records prepaid transactions and brokers payment
// intents with the external provider.
type PaymentController struct {
	DB     *gorm.DB
	Stripe *stripe.Client
	Logger *logger.AsyncLogger
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB, stripeClient *stripe.Client, asyncLogger *logger.AsyncLogger) *PaymentController {
	return &PaymentController{
		DB:     db,
		Stripe: stripeClient,
		Logger: asyncLogger,
	}
}

// respond sends the response and queues an audit entry for it.
func (pc *PaymentController) respond(c *fiber.Ctx, status int, response types.ApiResponse) error {
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

// CreateIntent requests a card-only payment intent from the provider for
// totalCost, given in major units, and returns the client secret.
func (pc *PaymentController) CreateIntent(c *fiber.Ctx) error {
	var req paymentTypes.CreateIntentRequest
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

	amount := int64(math.Round(req.TotalCost * 100))
	intent, err := pc.Stripe.CreatePaymentIntent(amount, intentCurrency)
	if err != nil {
		logger.Error("Failed to create payment intent", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return pc.respond(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment intent created successfully",
		Data: fiber.Map{
			"clientSecret": intent.ClientSecret,
		},
	})
}

// Record stores a completed payment and creates the prepaid parcel it
// pays for. Both inserts run in one transaction so the payment and its
// parcel always agree; the payment row references the parcel id generated
// inside the transaction.
func (pc *PaymentController) Record(c *fiber.Ctx) error {
	var req paymentTypes.RecordPaymentRequest
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

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = parcelModel.PaymentMethodPrepaid.String()
	}

	paidAt := time.Now().UTC()
	transactionID := req.TransactionID

	var p parcelModel.Parcel
	var pay paymentModel.Payment
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		p = parcelModel.Parcel{
			SenderEmail:     req.ParcelData.SenderEmail,
			SenderName:      req.ParcelData.SenderName,
			ReceiverName:    req.ParcelData.ReceiverName,
			ReceiverAddress: req.ParcelData.ReceiverAddress,
			DeliveryStatus:  parcelModel.StatusCreated,
			PaymentMethod:   parcelModel.PaymentMethodPrepaid,
			PaymentStatus:   parcelModel.PaymentPaid,
			TotalCost:       req.TotalCost,
			TransactionID:   &transactionID,
			StatusLogs: []parcelModel.StatusLog{
				{Status: parcelModel.LogPaymentSuccessful, Timestamp: paidAt},
			},
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		pay = paymentModel.Payment{
			Email:         req.Email,
			ParcelID:      p.ID,
			TotalCost:     req.TotalCost,
			PaymentMethod: paymentMethod,
			TransactionID: req.TransactionID,
			PaidAt:        paidAt,
		}
		return tx.Create(&pay).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pc.respond(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Payment already recorded for this transaction",
				Data:    nil,
			})
		}
		logger.Error("Failed to process prepaid parcel", err)
		return pc.respond(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process prepaid parcel",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Payment %s recorded, parcel created with ID: %d", pay.TransactionID, p.ID))

	return pc.respond(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Payment successful and parcel created",
		Data: fiber.Map{
			"insertedParcelId":  p.ID,
			"insertedPaymentId": pay.ID,
		},
	})
}
