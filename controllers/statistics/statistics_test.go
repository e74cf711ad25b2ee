package statistics

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"courier-desk/database"
	parcelModel "courier-desk/models/parcel"
	"courier-desk/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func fetchDashboard(t *testing.T, db *gorm.DB) map[string]interface{} {
	t.Helper()

	sc := NewStatisticsController(db)
	app := fiber.New()
	app.Get("/admin/statistics", sc.Dashboard)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/statistics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var apiResp types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiResp))
	resp.Body.Close()

	data, ok := apiResp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func seed(t *testing.T, db *gorm.DB, p parcelModel.Parcel) {
	t.Helper()
	if p.SenderEmail == "" {
		p.SenderEmail = "a@x.com"
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = parcelModel.PaymentMethodCOD
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = parcelModel.PaymentUnpaid
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestDashboardEmpty(t *testing.T) {
	db := newTestDB(t)

	data := fetchDashboard(t, db)
	for _, key := range []string{
		"bookingsToday", "inTransitParcels", "deliveredParcels",
		"failedDeliveries", "codCollected", "totalParcels",
	} {
		assert.EqualValues(t, 0, data[key], "expected %s to be zero on an empty system", key)
	}
}

func TestDashboardCounts(t *testing.T) {
	db := newTestDB(t)

	yesterday := time.Now().UTC().Add(-36 * time.Hour)

	seed(t, db, parcelModel.Parcel{DeliveryStatus: parcelModel.StatusCreated})
	seed(t, db, parcelModel.Parcel{DeliveryStatus: parcelModel.StatusInTransit})
	seed(t, db, parcelModel.Parcel{DeliveryStatus: parcelModel.StatusInTransit})
	seed(t, db, parcelModel.Parcel{DeliveryStatus: parcelModel.StatusFailed})
	seed(t, db, parcelModel.Parcel{
		DeliveryStatus: parcelModel.StatusDelivered,
		PaymentStatus:  parcelModel.PaymentPaid,
		TotalCost:      80,
	})
	seed(t, db, parcelModel.Parcel{
		DeliveryStatus: parcelModel.StatusDelivered,
		PaymentStatus:  parcelModel.PaymentPaid,
		TotalCost:      45.5,
	})
	seed(t, db, parcelModel.Parcel{
		DeliveryStatus: parcelModel.StatusDelivered,
		PaymentMethod:  parcelModel.PaymentMethodPrepaid,
		PaymentStatus:  parcelModel.PaymentPaid,
		TotalCost:      999,
	})
	seed(t, db, parcelModel.Parcel{
		DeliveryStatus: parcelModel.StatusCreated,
		CreatedAt:      yesterday,
	})

	data := fetchDashboard(t, db)

	assert.EqualValues(t, 7, data["bookingsToday"], "yesterday's booking must not count")
	assert.EqualValues(t, 2, data["inTransitParcels"])
	assert.EqualValues(t, 3, data["deliveredParcels"])
	assert.EqualValues(t, 1, data["failedDeliveries"])
	assert.EqualValues(t, 8, data["totalParcels"])
	assert.InDelta(t, 125.5, data["codCollected"].(float64), 0.001, "prepaid totals must not count as COD")
}
