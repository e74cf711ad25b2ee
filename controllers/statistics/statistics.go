package statistics

import (
	"time"

	"courier-desk/logger"
	parcelModel "courier-desk/models/parcel"
	"courier-desk/types"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// StatisticsController serves the admin dashboard snapshot. Every figure
// is computed independently per request; nothing is cached.
type StatisticsController struct {
	DB *gorm.DB
}

// NewStatisticsController creates a new statistics controller
func NewStatisticsController(db *gorm.DB) *StatisticsController {
	return &StatisticsController{
		DB: db,
	}
}

func (sc *StatisticsController) countParcels(conds ...interface{}) (int64, error) {
	var count int64
	query := sc.DB.Model(&parcelModel.Parcel{})
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}
	err := query.Count(&count).Error
	return count, err
}

// Dashboard returns the six dashboard figures: bookings created during
// the current UTC calendar day, failed / in-transit / delivered / total
// parcel counts, and the COD total collected so far.
func (sc *StatisticsController) Dashboard(c *fiber.Ctx) error {
	today := now.With(time.Now().UTC())
	startOfDay := today.BeginningOfDay()
	endOfDay := today.EndOfDay()

	fail := func(err error) error {
		logger.Error("Failed to fetch dashboard statistics", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch statistics",
			Data:    nil,
		})
	}

	bookingsToday, err := sc.countParcels("created_at BETWEEN ? AND ?", startOfDay, endOfDay)
	if err != nil {
		return fail(err)
	}

	failedDeliveries, err := sc.countParcels("delivery_status = ?", parcelModel.StatusFailed)
	if err != nil {
		return fail(err)
	}

	inTransitParcels, err := sc.countParcels("delivery_status = ?", parcelModel.StatusInTransit)
	if err != nil {
		return fail(err)
	}

	deliveredParcels, err := sc.countParcels("delivery_status = ?", parcelModel.StatusDelivered)
	if err != nil {
		return fail(err)
	}

	var codCollected float64
	err = sc.DB.Model(&parcelModel.Parcel{}).
		Where("payment_method = ? AND payment_status = ?", parcelModel.PaymentMethodCOD, parcelModel.PaymentPaid).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&codCollected).Error
	if err != nil {
		return fail(err)
	}

	totalParcels, err := sc.countParcels()
	if err != nil {
		return fail(err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Statistics fetched successfully",
		Data: fiber.Map{
			"bookingsToday":    bookingsToday,
			"inTransitParcels": inTransitParcels,
			"deliveredParcels": deliveredParcels,
			"failedDeliveries": failedDeliveries,
			"codCollected":     codCollected,
			"totalParcels":     totalParcels,
		},
	})
}
