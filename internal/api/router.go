package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jobboard/jobboard-api/docs"
	"github.com/jobboard/jobboard-api/internal/api/handler"
	"github.com/jobboard/jobboard-api/internal/api/middleware"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/infrastructure/http/handlers"
)

// Services groups the core services the router exposes.
type Services struct {
	Auth         ports.AuthService
	Applications ports.ApplicationService
	CVs          ports.CVService
	Posts        ports.PostService
	Companies    ports.CompanyService
	SavedPosts   ports.SavedPostService
	References   ports.ReferenceService
	Admin        ports.AdminService
}

// maxBodySize bounds request bodies; the largest accepted upload is a 10 MB image.
const maxBodySize = "12M"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, readiness *handlers.HealthDependenciesHandler, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddleware("jobboard"))
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	applicationHandler := handler.NewApplicationHandler(svc.Applications)
	cvHandler := handler.NewCVHandler(svc.CVs)
	postHandler := handler.NewPostHandler(svc.Posts)
	companyHandler := handler.NewCompanyHandler(svc.Companies)
	savedHandler := handler.NewSavedPostHandler(svc.SavedPosts)
	referenceHandler := handler.NewReferenceHandler(svc.References)
	adminHandler := handler.NewAdminHandler(svc.Admin)

	employee := middleware.RBAC(domain.RoleEmployee)
	employer := middleware.RBAC(domain.RoleEmployer)
	reviewer := middleware.RBAC(domain.RoleEmployer, domain.RoleAdmin)
	admin := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	v1.GET("/me", authHandler.Me)

	v1.GET("/cities", referenceHandler.ListCities)
	v1.POST("/cities", referenceHandler.CreateCity, admin)
	v1.GET("/categories", referenceHandler.ListCategories)
	v1.POST("/categories", referenceHandler.CreateCategory, admin)

	v1.GET("/posts", postHandler.List)
	v1.POST("/posts", postHandler.Create, employer)
	v1.GET("/posts/mine", postHandler.ListMine, employer)
	v1.GET("/posts/:id", postHandler.Get)
	v1.DELETE("/posts/:id", postHandler.Delete, employer)
	v1.GET("/posts/:id/applications", applicationHandler.ListForPost, reviewer)
	v1.POST("/posts/:id/applications", applicationHandler.Apply, employee)

	v1.GET("/applications/mine", applicationHandler.ListMine, employee)
	v1.DELETE("/applications/:id", applicationHandler.Withdraw, employee)
	v1.POST("/applications/:id/accept", applicationHandler.Accept, reviewer)
	v1.POST("/applications/:id/reject", applicationHandler.Reject, reviewer)

	v1.GET("/cv", cvHandler.Get)
	v1.POST("/cv", cvHandler.Upload, employee)
	v1.PUT("/cv", cvHandler.Replace, employee)
	v1.DELETE("/cv/:id", cvHandler.Delete, employee)
	v1.GET("/cv/:id/file", cvHandler.Download)

	v1.POST("/companies", companyHandler.Create, employer)
	v1.PUT("/companies/:id", companyHandler.Update, employer)
	v1.PUT("/companies/:id/image", companyHandler.UpdateImage, employer)
	v1.DELETE("/companies/:id", companyHandler.Delete, employer)

	v1.GET("/saved-posts", savedHandler.List)
	v1.POST("/saved-posts/:post_id", savedHandler.Save)
	v1.DELETE("/saved-posts/:post_id", savedHandler.Unsave)

	adminGroup := v1.Group("/admin", admin)
	adminGroup.GET("/stats", adminHandler.Stats)
	adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
	adminGroup.DELETE("/posts/:id", adminHandler.DeletePost)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
