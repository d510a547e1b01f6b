package routes

import (
	"calibration-app/config"
	"calibration-app/controllers"
	"calibration-app/middleware"
	"calibration-app/repositories"
	"calibration-app/services"
	"calibration-app/storage"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Route is one protected endpoint. Page is declared here and nowhere else;
// the action is fixed by the HTTP verb.
type Route struct {
	Method  string
	Path    string
	Page    string
	Handler fiber.Handler
}

// Action is the permission action the route's verb requires.
func (r Route) Action() services.Action {
	action, _ := services.ActionForMethod(r.Method)
	return action
}

type Controllers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Roles         *controllers.RoleController
	Series        *controllers.NumberSeriesController
	Master        *controllers.MasterController
	WorkOrders    *controllers.WorkOrderController
	DeliveryNotes *controllers.DeliveryNoteController
	Reports       *controllers.ReportController
	Dashboard     *controllers.DashboardController
}

func NewControllers(db *gorm.DB, files *storage.Local) Controllers {
	users := services.NewUserService(repositories.NewUserRepository(db))
	numbers := services.NewNumberSeriesService(repositories.NewNumberSeriesRepository(db))
	orders := services.NewWorkOrderService(db)
	reports := services.NewReportService(db)

	return Controllers{
		Auth:          controllers.NewAuthController(users),
		Users:         controllers.NewUserController(users),
		Roles:         controllers.NewRoleController(services.NewPermissionService(db)),
		Series:        controllers.NewNumberSeriesController(numbers),
		Master:        controllers.NewMasterController(services.NewMasterDataService(db, numbers)),
		WorkOrders:    controllers.NewWorkOrderController(orders, files),
		DeliveryNotes: controllers.NewDeliveryNoteController(orders, files),
		Reports:       controllers.NewReportController(reports),
		Dashboard:     controllers.NewDashboardController(reports),
	}
}

// Table lists every protected route in registration order.
func Table(c Controllers) []Route {
	var table []Route
	table = append(table, authRoutes(c)...)
	table = append(table, userRoutes(c)...)
	table = append(table, settingsRoutes(c)...)
	table = append(table, masterRoutes(c)...)
	table = append(table, workOrderRoutes(c)...)
	table = append(table, deliveryNoteRoutes(c)...)
	table = append(table, reportRoutes(c)...)
	return table
}

func SetupRoutes(app *fiber.App, db *gorm.DB, files *storage.Local) {
	c := NewControllers(db, files)
	guard := middleware.NewPermissionGuard(db)

	api := app.Group(config.MAIN_ROUTES)
	api.Post("/auth/login", c.Auth.Login)

	for _, r := range Table(c) {
		action, ok := services.ActionForMethod(r.Method)
		if !ok {
			panic(fmt.Sprintf("routes: no permission action for %s %s", r.Method, r.Path))
		}
		api.Add(r.Method, r.Path, middleware.AuthMiddleware, guard.Require(r.Page, action), r.Handler)
	}
}
