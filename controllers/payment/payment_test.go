package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"courier-desk/database"
	"courier-desk/httpServices/stripe"
	parcelModel "courier-desk/models/parcel"
	paymentModel "courier-desk/models/payment"
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

func newPaymentApp(t *testing.T, stripeClient *stripe.Client) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	pc := NewPaymentController(db, stripeClient, nil)

	app := fiber.New()
	app.Post("/create-payment-intent", pc.CreateIntent)
	app.Post("/payments", pc.Record)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) (*http.Response, types.ApiResponse) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var apiResp types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiResp))
	resp.Body.Close()
	return resp, apiResp
}

func recordBody(transactionID string) fiber.Map {
	return fiber.Map{
		"email":         "a@x.com",
		"totalCost":     150.0,
		"transactionId": transactionID,
		"parcelData": fiber.Map{
			"senderEmail":     "a@x.com",
			"senderName":      "Alice",
			"receiverName":    "Bob",
			"receiverAddress": "12 Dock Road",
		},
	}
}

func TestRecordCreatesParcelAndPayment(t *testing.T) {
	app, db := newPaymentApp(t, nil)

	resp, apiResp := doJSON(t, app, "POST", "/payments", recordBody("txn_001"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := apiResp.Data.(map[string]interface{})
	require.Contains(t, data, "insertedParcelId")
	require.Contains(t, data, "insertedPaymentId")

	var p parcelModel.Parcel
	require.NoError(t, db.First(&p, uint(data["insertedParcelId"].(float64))).Error)
	assert.Equal(t, parcelModel.StatusCreated, p.DeliveryStatus)
	assert.Equal(t, parcelModel.PaymentMethodPrepaid, p.PaymentMethod)
	assert.Equal(t, parcelModel.PaymentPaid, p.PaymentStatus)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "txn_001", *p.TransactionID)

	var pay paymentModel.Payment
	require.NoError(t, db.First(&pay, uint(data["insertedPaymentId"].(float64))).Error)
	assert.Equal(t, p.ID, pay.ParcelID, "payment must reference the parcel created alongside it")
	assert.Equal(t, "txn_001", pay.TransactionID)

	var logs []parcelModel.StatusLog
	require.NoError(t, db.Where("parcel_id = ?", p.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, parcelModel.LogPaymentSuccessful, logs[0].Status)
}

func TestRecordDuplicateTransactionRollsBack(t *testing.T) {
	app, db := newPaymentApp(t, nil)

	resp, _ := doJSON(t, app, "POST", "/payments", recordBody("txn_dup"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, apiResp := doJSON(t, app, "POST", "/payments", recordBody("txn_dup"))
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Payment already recorded for this transaction", apiResp.Message)

	var parcelCount, paymentCount int64
	require.NoError(t, db.Model(&parcelModel.Parcel{}).Count(&parcelCount).Error)
	require.NoError(t, db.Model(&paymentModel.Payment{}).Count(&paymentCount).Error)
	assert.EqualValues(t, 1, parcelCount, "the rejected payment must not leave a parcel behind")
	assert.EqualValues(t, 1, paymentCount)
}

func TestRecordRequiresTransactionID(t *testing.T) {
	app, _ := newPaymentApp(t, nil)

	body := recordBody("")
	resp, _ := doJSON(t, app, "POST", "/payments", body)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecordRequiresSenderEmail(t *testing.T) {
	app, _ := newPaymentApp(t, nil)

	body := recordBody("txn_002")
	body["parcelData"] = fiber.Map{"receiverName": "Bob"}
	resp, _ := doJSON(t, app, "POST", "/payments", body)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateIntentConvertsToMinorUnits(t *testing.T) {
	var gotAmount, gotCurrency, gotMethod string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAmount = r.PostFormValue("amount")
		gotCurrency = r.PostFormValue("currency")
		gotMethod = r.PostFormValue("payment_method_types[]")
		json.NewEncoder(w).Encode(fiber.Map{
			"id":            "pi_123",
			"client_secret": "pi_123_secret",
			"status":        "requires_payment_method",
		})
	}))
	defer provider.Close()

	app, _ := newPaymentApp(t, stripe.NewClient(provider.URL, "sk_test"))

	resp, apiResp := doJSON(t, app, "POST", "/create-payment-intent", fiber.Map{"totalCost": 12.5})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "1250", gotAmount)
	assert.Equal(t, "usd", gotCurrency)
	assert.Equal(t, "card", gotMethod)
	assert.Equal(t, "pi_123_secret", apiResp.Data.(map[string]interface{})["clientSecret"])
}

func TestCreateIntentProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(fiber.Map{
			"error": fiber.Map{"type": "card_error", "message": "Your card was declined."},
		})
	}))
	defer provider.Close()

	app, _ := newPaymentApp(t, stripe.NewClient(provider.URL, "sk_test"))

	resp, apiResp := doJSON(t, app, "POST", "/create-payment-intent", fiber.Map{"totalCost": 12.5})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Your card was declined.", apiResp.Message)
}

func TestCreateIntentRejectsNonPositiveTotal(t *testing.T) {
	app, _ := newPaymentApp(t, nil)

	resp, _ := doJSON(t, app, "POST", "/create-payment-intent", fiber.Map{"totalCost": 0})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
