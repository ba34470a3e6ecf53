package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"gk_notification_bot/internal/app"
)

// Deps are the application services the API exposes.
type Deps struct {
	Content    *app.ContentService
	Dispatcher app.Dispatcher
	Notifier   app.Notifier
	Logger     *logrus.Entry
	APIToken   string // empty leaves the POST routes open

	// DispatchTimeout bounds cycles started over HTTP. Zero means defaultDispatchTimeout.
	DispatchTimeout time.Duration
}

const defaultDispatchTimeout = 2 * time.Minute

// Server is the bot's HTTP surface: health, content lookups, manual triggers and metrics.
type Server struct {
	echo   *echo.Echo
	logger *logrus.Entry
}

func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(deps.Logger))

	if deps.DispatchTimeout <= 0 {
		deps.DispatchTimeout = defaultDispatchTimeout
	}
	h := &handlers{
		content:         deps.Content,
		dispatcher:      deps.Dispatcher,
		notifier:        deps.Notifier,
		logger:          deps.Logger,
		dispatchTimeout: deps.DispatchTimeout,
	}

	e.GET("/healthz", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.GET("/daily", h.daily)
	api.GET("/notifications", h.notifications)

	var guard []echo.MiddlewareFunc
	if deps.APIToken != "" {
		guard = append(guard, BearerAuth(deps.APIToken))
	}
	api.POST("/dispatch", h.dispatch, guard...)
	api.POST("/push", h.push, guard...)

	return &Server{echo: e, logger: deps.Logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.WithField("addr", addr).Info("Starting HTTP server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func requestLogger(logger *logrus.Entry) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.Round(time.Microsecond).String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("HTTP request failed")
				return nil
			}
			entry.Debug("HTTP request")
			return nil
		},
	})
}
