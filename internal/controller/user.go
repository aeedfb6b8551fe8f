package controller

import (
	"net/http"

	"openbid/internal/entity"
	"openbid/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

type userRoutesHandler struct {
	userService service.User
	validate    *validator.Validate
	log         *logrus.Logger
}

func newUserRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, log *logrus.Logger) *userRoutesHandler {
	h := &userRoutesHandler{userService: services.User, validate: v, log: log}

	outer.POST("/users", h.PostUser)
	outer.GET("/users/me", h.GetMe)

	return h
}

type userResponse struct {
	User *entity.UserOutputModel `json:"user"`
}

type postUserInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"displayName" validate:"required,max=150"`
	UserType    string `json:"userType" validate:"required,oneof=contractor provider"`
}

// POST /users provisions the profile for the authenticated identity.
func (h *userRoutesHandler) PostUser(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input postUserInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	model := &entity.CreateUserInput{
		Id:          identity.UID,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		UserType:    input.UserType,
	}

	user, err := h.userService.CreateUser(c.Request().Context(), model)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, userResponse{User: user})
}

// GET /users/me
func (h *userRoutesHandler) GetMe(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	user, err := h.userService.GetUserById(c.Request().Context(), identity.UID)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, userResponse{User: user})
}
