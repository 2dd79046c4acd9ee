package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/staffdir/employee-directory/docs"
	"github.com/staffdir/employee-directory/internal/api/handler"
	"github.com/staffdir/employee-directory/internal/api/middleware"
	"github.com/staffdir/employee-directory/internal/core/ports"
	"github.com/staffdir/employee-directory/internal/core/validation"
)

// Dependencies are the collaborators the HTTP layer is wired with.
type Dependencies struct {
	Employees ports.EmployeeService
	Validator *validation.Validator
	Logger    zerolog.Logger

	// Mongo and Redis back the readiness probe. Redis may be nil.
	Mongo *mongo.Database
	Redis *redis.Client

	// BasePath prefixes every API route (e.g. "/api"). Empty mounts at root.
	BasePath    string
	CORSOrigins []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(deps.Validator)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	// Recover runs innermost so panics reach Metrics and RequestLogger as 500s.
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  corsOrigins(deps.CORSOrigins),
		ExposeHeaders: []string{echo.HeaderXRequestID, "Idempotent-Replayed"},
	}))
	e.Use(middleware.Metrics())
	e.Use(middleware.Recover(deps.Logger))

	basePath := normalizeBasePath(deps.BasePath)
	api := e.Group(basePath)

	// --- Employee routes ---
	employees := handler.NewEmployeeHandler(deps.Employees)
	api.GET("/employees", employees.List)
	api.POST("/employees", employees.Create)
	api.GET("/employees/:id", employees.Get)
	api.PUT("/employees/:id", employees.Update)
	api.DELETE("/employees/:id", employees.Delete)
	api.GET("/departments", employees.Departments)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	api.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	api.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = basePath
	if docs.SwaggerInfo.BasePath == "" {
		docs.SwaggerInfo.BasePath = "/"
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// normalizeBasePath turns "api", "/api/" and "/api" into "/api"; "" and "/" into "".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func corsOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
