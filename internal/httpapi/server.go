package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	errx "github.com/cementops-poc/server/internal/core/error"
	logx "github.com/cementops-poc/server/pkg/logger"
)

const gracefulPeriod = 30 * time.Second

// ErrorBody is the JSON shape every service returns on failure.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// New builds the echo instance every service shares: open-origin CORS
// (covers the preflight OPTIONS), panic recovery, request logging, a health
// probe, and AppError-aware error rendering. serviceName tags the request
// log; healthName, when non-empty, is echoed back from /health.
func New(serviceName, healthName string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(requestLogger(serviceName))

	e.HTTPErrorHandler = errorHandler

	e.GET("/health", Health(healthName))

	return e
}

// Health reports liveness. The probe contract is just {"status": "healthy"};
// only the recommendation service names itself in the payload.
func Health(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]string{"status": "healthy"}
		if name != "" {
			body["service"] = name
		}
		return c.JSON(http.StatusOK, body)
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorBody{Error: errx.SystemErrorMessage}

	var appErr *errx.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		body.Error = appErr.Message
		body.Message = appErr.Hint
	case errors.As(err, &httpErr):
		status = httpErr.Code
		body.Error = fmt.Sprintf("%v", httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if err := c.JSON(status, body); err != nil {
		logx.Error().Err(err).Msg("failed to write error response")
	}
}

func requestLogger(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// render now so the committed status is logged, not the
				// pre-error default
				c.Error(err)
				err = nil
			}
			logx.Info().
				Str("service", serviceName).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Msg("request")
			return err
		}
	}
}

// Serve runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func Serve(e *echo.Echo, port int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulPeriod)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
