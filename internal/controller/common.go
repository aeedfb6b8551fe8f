package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"openbid/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Code      string   `json:"code"`
	Reason    string   `json:"reason"`
	MinAmount *float64 `json:"minAmount,omitempty"`
}

func badInput(c echo.Context, reason string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_input", Reason: reason})
}

// handleServiceError maps the service error taxonomy onto the HTTP
// surface. Anything unrecognized is an unexpected failure: logged and
// hidden behind a generic 500.
func handleServiceError(c echo.Context, log *logrus.Logger, err error) error {
	var belowBudget *service.BidBelowBudgetError
	if errors.As(err, &belowBudget) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Code:      "bid_below_budget",
			Reason:    "Bid amount is below the job's minimum",
			MinAmount: &belowBudget.MinAmount,
		})
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, errorResponse{Code: "unauthorized", Reason: "No user record for the authenticated identity"})
	case errors.Is(err, service.ErrJobNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Reason: "There is no job with given id"})
	case errors.Is(err, service.ErrBidNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Reason: "There is no bid with given id"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Code: "forbidden", Reason: "You don't own the target record"})
	case errors.Is(err, service.ErrContractorOnly):
		return c.JSON(http.StatusForbidden, errorResponse{Code: "contractor_only", Reason: "Only contractors can post jobs"})
	case errors.Is(err, service.ErrKycRequired):
		return c.JSON(http.StatusForbidden, errorResponse{Code: "kyc_required", Reason: "KYC required"})
	case errors.Is(err, service.ErrOwnJobBid):
		return c.JSON(http.StatusForbidden, errorResponse{Code: "own_job_bid", Reason: "You can't bid on your own job"})
	case errors.Is(err, service.ErrJobLocked):
		return c.JSON(http.StatusConflict, errorResponse{Code: "job_locked", Reason: "Job is no longer open"})
	case errors.Is(err, service.ErrBiddingClosed):
		return c.JSON(http.StatusConflict, errorResponse{Code: "bidding_closed", Reason: "Bidding on this job is closed"})
	case errors.Is(err, service.ErrBidClosed):
		return c.JSON(http.StatusConflict, errorResponse{Code: "bid_closed", Reason: "Bid is no longer active"})
	case errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_amount", Reason: "Amount must be a finite number greater than zero"})
	case errors.Is(err, service.ErrNoUpdateFields):
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "no_update_fields", Reason: "Supply at least one of amount or note"})
	case errors.Is(err, service.ErrBidAlreadyExists):
		return c.JSON(http.StatusConflict, errorResponse{Code: "bid_already_exists", Reason: "You already have a bid on this job"})
	case errors.Is(err, service.ErrUserAlreadyExists):
		return c.JSON(http.StatusConflict, errorResponse{Code: "user_exists", Reason: "User already exists"})
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
	}).Error("unexpected error")

	return c.JSON(http.StatusInternalServerError, errorResponse{Code: "internal_error", Reason: "Internal error"})
}

func getAllErrorMessages(err error) string {
	var builder strings.Builder
	for _, fe := range err.(validator.ValidationErrors) {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	kind := fe.Type().Kind()
	if kind == reflect.Ptr {
		kind = fe.Type().Elem().Kind()
	}

	switch kind {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "email":
		return "should be a valid email address"
	}

	return "incorrect value passed"
}
