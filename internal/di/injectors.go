//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"github.com/maxamas123/district-line-tracker/internal"
	"github.com/maxamas123/district-line-tracker/internal/controllers"
	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
	"github.com/maxamas123/district-line-tracker/internal/structures"
	"github.com/maxamas123/district-line-tracker/internal/tracker"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		models.NewReportStore,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewRateLimiter,

		services.NewStatusService,
		services.NewReportService,
		services.NewAggregationService,

		tracker.NewZstdCompressor,
		tracker.NewFileManager,
		tracker.NewScheduler,

		controllers.NewReportController,
		controllers.NewStatusController,
		controllers.NewDashboardController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
