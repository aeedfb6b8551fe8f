package controller

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

// requestLogger emits one structured line per request.
func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := uuid.NewString()
			c.Set("request_id", requestID)

			err := next(c)

			entry := log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"http_method": c.Request().Method,
				"uri":         c.Request().RequestURI,
				"status_code": c.Response().Status,
				"latency_ms":  time.Since(start).Milliseconds(),
				"client_ip":   c.RealIP(),
			})
			if err != nil {
				entry.WithError(err).Error("request failed")
			} else {
				entry.Info("request handled")
			}

			return err
		}
	}
}
