package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/auth"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/export"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/metrics"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/stats"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config   config.HTTPConfig
	Services *service.Services
	Stats    *stats.Engine
	Exporter *export.Exporter
	Gate     *auth.Gate
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewApp builds the fiber application with every route mounted.
func NewApp(d Deps) *fiber.App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "backdoor-mission",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recoveryMiddleware())
	app.Use(requestIDMiddleware())
	app.Use(observeMiddleware(log, d.Metrics))
	app.Use(corsMiddleware(d.Config.CORSOrigins))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	s := d.Services
	mountCRUD[model.Client, service.CreateClientRequest, service.UpdateClientRequest](app, "/client", "client", s.Clients)
	mountCRUD[model.WashroomRecord, service.CreateWashroomRequest, service.UpdateWashroomRequest](app, "/washroom_records", "washroom record", s.Washrooms)
	mountCRUD[model.CoatCheckRecord, service.CreateCoatCheckRequest, service.UpdateCoatCheckRequest](app, "/coat_check_records", "coat check record", s.CoatChecks)
	mountCRUD[model.SanctuaryRecord, service.CreateSanctuaryRequest, service.UpdateSanctuaryRequest](app, "/sanctuary_records", "sanctuary record", s.Sanctuary)
	mountCRUD[model.ClinicRecord, service.CreateClinicRequest, service.UpdateClinicRequest](app, "/clinic_records", "clinic record", s.Clinic)
	mountCRUD[model.SafeSleepRecord, service.CreateSafeSleepRequest, service.UpdateSafeSleepRequest](app, "/safe_sleep_records", "safe sleep record", s.SafeSleep)
	mountCRUD[model.Activity, service.CreateActivityRequest, service.UpdateActivityRequest](app, "/activity", "activity", s.Activities)
	mountCRUD[model.ClientActivity, service.CreateClientActivityRequest, service.UpdateClientActivityRequest](app, "/client_activity", "client activity", s.ClientActivities)

	app.Post("/data_clean/client", cleanClients(s.Clients, log))
	app.Get("/export/:table", exportTable(d.Exporter, log))

	api := app.Group("/api")
	api.Post("/login", login(d.Gate, log))

	api.Get("/clients", searchClients(s.Clients))
	api.Get("/clients/suggest", suggestClients(s.Clients))
	api.Get("/clients/recent", recentActivity(d.Stats))

	api.Get("/client-statistics", clientStatistics(d.Stats))
	for _, dept := range stats.Departments {
		api.Get("/"+dept.Key+"-statistics", departmentStatistics(d.Stats, dept.Key))
	}
	api.Get("/department-heatmap", departmentHeatmap(d.Stats))
	api.Get("/activity-scores", activityScores(d.Stats))

	return app
}
