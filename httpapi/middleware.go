package httpapi

import (
	"runtime"
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/guapman/storage-service/logger"
)

// newLoggerMW creates a middleware that logs every request and recovers
// from handler panics. The log level follows the response status code
// (info for 2xx/3xx, warn for 4xx, error for 5xx).
func newLoggerMW(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handleWithRecovery(c)

		// The app error handler has not run yet when a handler returns an
		// error, so derive the status from the error type in that case.
		statusCode := c.Response().StatusCode()
		if err != nil {
			statusCode = mapErrorTypeToHTTPStatusCode(errx.GetType(err))
		}

		entry := log.With(
			"http_status_code", statusCode,
			"http_method", c.Method(),
			"http_path", c.Path(),
			"http_route", c.Route().Path,
			"duration", time.Since(start).String(),
			"request_user_id", c.Get(headerUserID),
			"request_size", c.Request().Header.ContentLength(),
		)

		switch {
		case statusCode >= 500 && err != nil:
			entry.Errorx(err)
		case statusCode >= 400 && err != nil:
			entry.Warnx(err)
		case statusCode >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request processed")
		}

		return err
	}
}

// handleWithRecovery executes the next handler and recovers from panics.
func handleWithRecovery(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			traceSize := 4096 // 4KB
			stackTrace := make([]byte, traceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New(
				"panic recovered at logger middleware",
				errx.WithDetails(errx.D{
					"stack_trace":   string(stackTrace),
					"panic_message": r,
				}),
			)
		}
	}()

	return c.Next()
}
