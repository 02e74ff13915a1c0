package internal

import (
	"net/http"

	"github.com/maxamas123/district-line-tracker/internal/controllers"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

func InitRoutes(reportController *controllers.ReportController, statusController *controllers.StatusController, dashboardController *controllers.DashboardController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/reports", http.HandlerFunc(reportController.Create))
	routers.Get("/api/reports", http.HandlerFunc(reportController.List))
	routers.Post("/api/reports/update", http.HandlerFunc(reportController.Update))
	routers.Post("/api/reports/delete", http.HandlerFunc(reportController.Delete))
	routers.Post("/api/reports/upvote", http.HandlerFunc(reportController.Upvote))
	routers.Post("/api/reports/downvote", http.HandlerFunc(reportController.Downvote))
	routers.Get("/api/status", http.HandlerFunc(statusController.Live))
	routers.Get("/api/status/at", http.HandlerFunc(statusController.At))
	routers.Get("/api/dashboard", http.HandlerFunc(dashboardController.Dashboard))
	return routers
}
