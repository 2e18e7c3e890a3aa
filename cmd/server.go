package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Abraxas-365/intake/migrations"
	"github.com/Abraxas-365/intake/pkg/config"
	"github.com/Abraxas-365/intake/pkg/errx/errxhttp"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/recruitment/applicant/applicantapi"
	"github.com/Abraxas-365/intake/recruitment/identity/identityapi"
	"github.com/Abraxas-365/intake/recruitment/project/projectapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	// 1. Environment and config
	if err := config.LoadEnv(ctx); err != nil {
		logx.Fatalf("Failed to load environment: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load config: %v", err)
	}

	logx.SetLevel(logx.ParseLevel(cfg.Server.LogLevel))
	logx.Infof("Starting Intake API Server (%s)...", cfg.Environment)

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	applied, err := migrations.Apply(ctx, container.DB)
	if err != nil {
		logx.Fatalf("Failed to apply migrations: %v", err)
	}
	if applied > 0 {
		logx.Infof("Applied %d migrations", applied)
	}

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Intake API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ErrorHandler:          errxhttp.ErrorHandler,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.CORSOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check and metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status": "ok",
			"db":     container.DB.PingContext(c.Context()) == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		}
		if stats, err := container.Queue.GetStats(c.Context()); err == nil {
			health["queue"] = stats
		}
		return c.JSON(health)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{})))

	// 6. Register Routes

	// Countries and identity form helpers (public): /api/countries, /api/identity
	identityapi.RegisterRoutes(app, container.IdentityHandlers)

	// Projects: /api/projects
	projectapi.RegisterRoutes(app, container.ProjectHandlers, container.AuthMiddleware)

	// Applicants: /api/applicants and /api/projects/:id/...
	applicantapi.RegisterRoutes(app, container.ApplicantHandlers, container.AuthMiddleware)

	// 7. Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if container.NotificationWorker != nil {
		container.NotificationWorker.Start(workerCtx)
	}

	// 8. Start Server with Graceful Shutdown
	port := strconv.Itoa(cfg.Server.Port)

	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	if container.NotificationWorker != nil {
		container.NotificationWorker.Wait()
	}

	logx.Info("Server exited")
}
