package controller

import (
	"openbid/internal/auth"
	"openbid/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, verifier auth.Verifier, log *logrus.Logger) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	handler.Use(requestLogger(log))
	api := handler.Group("/api", identityMiddleware(verifier))

	newDiagnosticRoutesHandler(api, services)
	newUserRoutesHandler(api, services, validate, log)
	newJobRoutesHandler(api, services, validate, log)
	newBidRoutesHandler(api, services, validate, log)
}
