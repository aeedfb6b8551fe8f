package controller

import (
	"net/http"

	"openbid/internal/entity"
	"openbid/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
	log        *logrus.Logger
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, log *logrus.Logger) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v, log: log}

	outer.GET("/bids/myBids", h.GetMyBids)
	outer.GET("/bids/:jobId", h.GetJobBids)
	outer.POST("/bids/:jobId", h.PostBid)
	outer.PATCH("/bids/:jobId/:bidId", h.PatchBid)
	// echo v3 keeps one param name per path position across methods, so
	// this segment must be called :jobId to match the routes above even
	// though the value is a bid id.
	outer.DELETE("/bids/:jobId", h.DeleteBid)
	outer.POST("/bids/:jobId/:bidId/accept", h.AcceptBid)

	return h
}

type bidResponse struct {
	Bid *entity.BidOutputModel `json:"bid"`
}

type bidsResponse struct {
	Bids []entity.BidOutputModel `json:"bids"`
}

type listBidsInput struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// GET /bids/:jobId
func (h *bidRoutesHandler) GetJobBids(c echo.Context) error {
	var input listBidsInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(input.Limit, input.Offset)
	bids, err := h.bidService.GetJobBids(c.Request().Context(), c.Param("jobId"), pg)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, bids)
}

type postBidInput struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note" validate:"max=2000"`
}

// POST /bids/:jobId
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input postBidInput
	if err := c.Bind(&input); err != nil {
		// The only numeric field in this body is the amount, so a
		// malformed body almost always means a non-numeric amount.
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_amount", Reason: "Amount must be a number"})
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	model := &entity.CreateBidInput{
		JobId:  c.Param("jobId"),
		Amount: input.Amount,
		Note:   input.Note,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), identity.UID, model)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, bidResponse{Bid: bid})
}

type patchBidInput struct {
	Amount *float64 `json:"amount"`
	Note   *string  `json:"note" validate:"omitempty,max=2000"`
}

// PATCH /bids/:jobId/:bidId
func (h *bidRoutesHandler) PatchBid(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input patchBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_amount", Reason: "Amount must be a number"})
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	patch := &entity.BidPatch{Amount: input.Amount, Note: input.Note}
	bid, err := h.bidService.EditBidById(c.Request().Context(), identity.UID, c.Param("jobId"), c.Param("bidId"), patch)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, bidResponse{Bid: bid})
}

// DELETE /bids/:bidId
func (h *bidRoutesHandler) DeleteBid(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	// The :jobId segment carries the bid id here; see the route table.
	if err := h.bidService.DeleteBidById(c.Request().Context(), identity.UID, c.Param("jobId")); err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// POST /bids/:jobId/:bidId/accept
func (h *bidRoutesHandler) AcceptBid(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	award, err := h.bidService.AcceptBid(c.Request().Context(), identity.UID, c.Param("jobId"), c.Param("bidId"))
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, award)
}

// GET /bids/myBids
func (h *bidRoutesHandler) GetMyBids(c echo.Context) error {
	identity, ok, err := requireIdentity(c)
	if !ok {
		return err
	}

	var input listBidsInput
	if err := c.Bind(&input); err != nil {
		return badInput(c, "Input data is not formed correctly")
	}
	if err := h.validate.Struct(input); err != nil {
		return badInput(c, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(input.Limit, input.Offset)
	bids, err := h.bidService.GetUserBids(c.Request().Context(), identity.UID, pg)
	if err != nil {
		return handleServiceError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, bidsResponse{Bids: bids})
}
