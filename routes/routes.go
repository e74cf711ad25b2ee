package routes

import (
	"courier-desk/controllers/parcel"
	"courier-desk/controllers/payment"
	"courier-desk/controllers/statistics"
	"courier-desk/controllers/user"
	"courier-desk/httpServices/stripe"
	"courier-desk/logger"
	"courier-desk/middleware"
	userModel "courier-desk/models/user"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires the controllers and middleware onto the app. All
// dependencies are constructed here once and injected; handlers hold no
// process-wide state.
func SetupRoutes(app *fiber.App, db *gorm.DB, authClient *auth.Client, stripeClient *stripe.Client, asyncLogger *logger.AsyncLogger) {
	userController := user.NewUserController(db)
	parcelController := parcel.NewParcelController(db, asyncLogger)
	paymentController := payment.NewPaymentController(db, stripeClient, asyncLogger)
	statisticsController := statistics.NewStatisticsController(db)

	identity := middleware.Protected(authClient)
	admin := middleware.RequireRole(db, userModel.RoleAdmin)
	agent := middleware.RequireRole(db, userModel.RoleDeliveryAgent)

	// Liveness
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CourierDesk server is running")
	})

	/*=============================================================================
	| User Routes
	===============================================================================*/
	app.Post("/users", userController.Register)
	app.Get("/users", identity, admin, userController.List)
	app.Get("/users/:email/role", identity, userController.GetRole)
	app.Patch("/users/:id/role", identity, admin, userController.SetRole)

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	app.Get("/parcels", identity, admin, parcelController.ListAll)
	app.Post("/parcels", identity, parcelController.Book)
	app.Get("/myparcels", identity, parcelController.ListMine)
	app.Get("/agentassignedparcels", identity, agent, parcelController.ListAssigned)
	app.Patch("/parcels/:id/assign-agent", identity, admin, parcelController.AssignAgent)
	app.Patch("/update-parcel-status/:id", identity, agent, parcelController.UpdateStatus)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	app.Post("/create-payment-intent", identity, paymentController.CreateIntent)
	app.Post("/payments", identity, paymentController.Record)

	/*=============================================================================
	| Statistics Routes
	===============================================================================*/
	app.Get("/admin/statistics", identity, admin, statisticsController.Dashboard)
}
