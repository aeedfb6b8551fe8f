package controller

import (
	"net/http"

	"openbid/internal/entity"
	"openbid/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

type jobRoutesHandler struct {
	jobService service.Job
	validate   *validator.Validate
	log        *logrus.Logger
}

func newJobRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, log *logrus.Logger) *jobRoutesHandler {
	h := &jobRoutesHandler{jobService: services.Job, validate: v, log: log}

	outer.GET("/jobs", h.GetJobs)
	outer.POST("/jobs", h.PostJob)
	outer.GET("/jobs/:jobId", h.GetJob)
	outer.PATCH("/jobs/:jobId", h.PatchJob)
	outer.DELETE("/jobs/:jobId", h.DeleteJob)

	return h
}

type jobResponse struct {
	Job *entity.JobOutputModel `json:"job"`
}

type jobsResponse struct {
	Jobs []entity.JobOutputModel `json:"jobs"`
}

type listJobsInput struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// GET /jobs
func (h *jobRoutesHandler) GetJobs(c echo.Context) error {
	var input listJobsInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(input.Limit, input.Offset)
	identity, viewerPassed := currentIdentity(c)
	viewerId := ""
	if viewerPassed {
		viewerId = identity.UID
	}

	jobs, err := h.jobService.GetJobs(c.Request().Context(), viewerId, viewerPassed, pg)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, jobsResponse{Jobs: jobs})
}

type postJobInput struct {
	Title        string  `json:"title" validate:"required,max=150"`
	Description  string  `json:"description" validate:"max=5000"`
	BudgetAmount float64 `json:"budgetAmount" validate:"gte=0"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Address      string  `json:"address" validate:"max=300"`
}

// POST /jobs
func (h *jobRoutesHandler) PostJob(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input postJobInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	model := &entity.CreateJobInput{
		Title:        input.Title,
		Description:  input.Description,
		BudgetAmount: input.BudgetAmount,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), identity.UID, model)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

// GET /jobs/:jobId
func (h *jobRoutesHandler) GetJob(c echo.Context) error {
	job, err := h.jobService.GetJobById(c.Request().Context(), c.Param("jobId"))
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

type patchJobInput struct {
	Title        *string  `json:"title" validate:"omitempty,max=150"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	BudgetAmount *float64 `json:"budgetAmount" validate:"omitempty,gte=0"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Address      *string  `json:"address" validate:"omitempty,max=300"`
}

// PATCH /jobs/:jobId
func (h *jobRoutesHandler) PatchJob(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input patchJobInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	patch := &entity.JobPatch{
		Title:        input.Title,
		Description:  input.Description,
		BudgetAmount: input.BudgetAmount,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
	}

	job, err := h.jobService.EditJobById(c.Request().Context(), identity.UID, c.Param("jobId"), patch)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

// DELETE /jobs/:jobId
func (h *jobRoutesHandler) DeleteJob(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	if err := h.jobService.DeleteJobById(c.Request().Context(), identity.UID, c.Param("jobId")); err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
