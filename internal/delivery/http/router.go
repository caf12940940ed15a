package http

import (
	"log/slog"
	"net/http"

	handler "main/internal/delivery/http/auth_handler"
	metrics "main/internal/metrics"

	"github.com/labstack/echo/v4"
	middleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func MapRoutes(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	authUsecase AuthUsecase,
	logger *slog.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) {
	// Middlewares
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:   middleware.DefaultSkipper,
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {

			if v.Error != nil {
				logger.Error("HTTP request error",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"error", v.Error,
				)
				return nil
			}

			logger.Info("HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"error", v.Error,
			)

			return nil
		},
	},
	))

	//routes
	g := e.Group("/auth")
	g.POST("/register", authHandler.Register, MetricsMiddleware(m))
	g.POST("/login", authHandler.Login, MetricsMiddleware(m))
	g.POST("/logout", authHandler.Logout, MetricsMiddleware(m))
	g.POST("/validate", authHandler.Validate, MetricsMiddleware(m))
	g.GET("/profile", authHandler.Profile, MetricsMiddleware(m))
	g.POST("/logout-all", authHandler.LogoutAll, AuthMiddleware(authUsecase), MetricsMiddleware(m))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	logger.Info("HTTP routes mapped successfully")
}
