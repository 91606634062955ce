// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/app/handlers"
	"github.com/horasobra/backend/app/middleware"
	"github.com/horasobra/backend/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app              *fiber.App
	authMiddleware   *middleware.AuthMiddleware
	authHandler      handlers.AuthHandlerInterface
	entryHandler     handlers.TimeEntryHandlerInterface
	summaryHandler   handlers.SummaryHandlerInterface
	siteHandler      handlers.SiteHandlerInterface
	costCodeHandler  handlers.CostCodeHandlerInterface
	workerHandler    handlers.WorkerHandlerInterface
	userHandler      handlers.UserHandlerInterface
	corsAllowOrigins []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	authMiddleware *middleware.AuthMiddleware,
	authHandler handlers.AuthHandlerInterface,
	entryHandler handlers.TimeEntryHandlerInterface,
	summaryHandler handlers.SummaryHandlerInterface,
	siteHandler handlers.SiteHandlerInterface,
	costCodeHandler handlers.CostCodeHandlerInterface,
	workerHandler handlers.WorkerHandlerInterface,
	userHandler handlers.UserHandlerInterface,
	corsAllowOrigins []string,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Horas Obra API",
		ServerHeader: "horasobra",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:              app,
		authMiddleware:   authMiddleware,
		authHandler:      authHandler,
		entryHandler:     entryHandler,
		summaryHandler:   summaryHandler,
		siteHandler:      siteHandler,
		costCodeHandler:  costCodeHandler,
		workerHandler:    workerHandler,
		userHandler:      userHandler,
		corsAllowOrigins: corsAllowOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))
	auth.Post("/login", r.authHandler.Login)

	authenticated := api.Group("", r.authMiddleware.Authenticate())

	authenticated.Get("/auth/me", r.authHandler.Me)

	entries := authenticated.Group("/entries")
	entries.Get("/", r.entryHandler.List)
	entries.Post("/", r.entryHandler.Create)
	entries.Post("/batch", r.entryHandler.CreateBatch)
	entries.Get("/today", r.entryHandler.ListToday)
	entries.Get("/month", r.entryHandler.ListMonth)
	entries.Get("/monthly-summary", r.summaryHandler.Monthly)
	entries.Get("/monthly-summary/export", r.summaryHandler.MonthlyExport)
	entries.Get("/:id", r.entryHandler.Get)
	entries.Patch("/:id", r.entryHandler.Update)
	entries.Delete("/:id", r.entryHandler.Delete)

	sites := authenticated.Group("/sites")
	sites.Get("/", r.siteHandler.List)
	sites.Post("/", r.siteHandler.Create)
	sites.Get("/:id", r.siteHandler.Get)
	sites.Patch("/:id", r.siteHandler.Update)
	sites.Delete("/:id", r.siteHandler.Delete)

	costCodes := authenticated.Group("/cost-codes")
	costCodes.Get("/", r.costCodeHandler.List)
	costCodes.Post("/", r.costCodeHandler.Create)
	costCodes.Get("/:id", r.costCodeHandler.Get)
	costCodes.Patch("/:id", r.costCodeHandler.Update)
	costCodes.Delete("/:id", r.costCodeHandler.Delete)

	workers := authenticated.Group("/workers")
	workers.Get("/", r.workerHandler.List)
	workers.Post("/", r.workerHandler.Create)
	workers.Get("/:id", r.workerHandler.Get)
	workers.Patch("/:id", r.workerHandler.Update)
	workers.Delete("/:id", r.workerHandler.Delete)

	users := authenticated.Group("/users")
	users.Get("/", r.userHandler.List)
	users.Post("/", r.userHandler.Create)
	users.Get("/:id", r.userHandler.Get)
	users.Patch("/:id", r.userHandler.Update)
	users.Put("/:id/password", r.userHandler.ResetPassword)
	users.Delete("/:id", r.userHandler.Delete)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.corsAllowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "horasobra-api",
		},
	})
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
