// Package server exposes the tracker over HTTP. GET and PUT on
// /timeTrackerData keep the json-server document contract, so existing
// front ends and the http storage backend can talk to it unchanged; the
// /courses, /hours and /stats routes run every change through the services.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/xolan/certtrack/internal/service"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// DocumentPath is the json-server resource holding the whole tracker document.
const DocumentPath = "/timeTrackerData"

// Server serves the tracker API.
type Server struct {
	echo     *echo.Echo
	services *service.Services
	logger   *zap.Logger
}

// New builds the echo instance and registers every route.
func New(services *service.Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout

	s := &Server{echo: e, services: services, logger: logger}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			s.logger.Info("request", fields...)
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET(DocumentPath, s.getDocument)
	s.echo.PUT(DocumentPath, s.putDocument)

	s.echo.GET("/courses", s.listCourses)
	s.echo.POST("/courses", s.addCourse)
	s.echo.POST("/courses/import", s.importCourses)
	s.echo.GET("/courses/:id", s.getCourse)
	s.echo.PUT("/courses/:id", s.editCourse)
	s.echo.DELETE("/courses/:id", s.deleteCourse)
	s.echo.GET("/categories", s.listCategories)

	s.echo.GET("/hours", s.getHours)
	s.echo.PUT("/hours", s.putHours)
	s.echo.GET("/stats", s.getStats)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
