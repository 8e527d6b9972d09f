package api

import (
	"net/http"

	"hotel-reservation-engine/internal/domain/reservation"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	EmailActionConfirm     = "confirm"
	EmailActionCancel      = "cancel"
	EmailActionGuestCancel = "guest-cancel"
)

var (
	errInvalidID     = errs.Validation("invalid id")
	errUnknownAction = errs.NotFound("unknown email action")
)

type BookingHandler struct {
	cmds   commands.ReservationCommands
	q      queries.ReservationQueries
	quotes queries.QuoteQueries
}

func NewBookingHandler(cmds commands.ReservationCommands, q queries.ReservationQueries, quotes queries.QuoteQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q, quotes: quotes}
}

// @Summary Create booking
// @Description Place a hold on a room. Returns the existing hold when the guest already has a live one at the hotel.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.HoldResponse
// @Success 200 {object} resdto.HoldResponse "existing hold reused"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput(optionalUserID(c)))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromCreateResult(result))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), viewer(c), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	res, err := resdto.FromReservationView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Confirm booking (guest payment)
// @Description Confirms a held booking. Anonymous holds authenticate with the guest action token.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmBookingRequest false "Guest action token"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ConfirmBookingRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	caller := callerFrom(c)
	caller.Token = req.Token
	result, err := h.cmds.Confirm(c.Request.Context(), id, reservation.ActorGuest, caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Cancel booking (guest)
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation reason"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Cancel(c.Request.Context(), id, reservation.ActorGuest, req.Reason, callerFrom(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Email link action
// @Description confirm and cancel act as the owner, guest-cancel as the guest. The token authorizes the call.
// @Tags bookings
// @Produce json
// @Param action path string true "confirm | cancel | guest-cancel"
// @Param id path string true "Booking ID"
// @Param token query string true "Action token"
// @Param reason query string false "Cancellation reason"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/email/{action}/{id} [get]
func (h *BookingHandler) EmailAction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q reqdto.EmailActionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	caller := commands.Caller{Token: q.Token}
	ctx := c.Request.Context()

	var (
		result *commands.TransitionResult
		err    error
	)
	switch c.Param("action") {
	case EmailActionConfirm:
		result, err = h.cmds.Confirm(ctx, id, reservation.ActorOwner, caller)
	case EmailActionCancel:
		result, err = h.cmds.Cancel(ctx, id, reservation.ActorOwner, q.Reason, caller)
	case EmailActionGuestCancel:
		result, err = h.cmds.Cancel(ctx, id, reservation.ActorGuest, q.Reason, caller)
	default:
		err = errUnknownAction
	}
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Quote a stay
// @Description Prices a stay with the same rules as a hold, without placing one. Tax is informational.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/quote [post]
func (h *BookingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	quote, err := h.quotes.Quote(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errInvalidID, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return false
	}
	return true
}

func optionalUserID(c *gin.Context) *uuid.UUID {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	return &id
}

func callerFrom(c *gin.Context) commands.Caller {
	return commands.Caller{UserID: optionalUserID(c), Admin: middleware.IsAdmin(c)}
}

func viewer(c *gin.Context) queries.Viewer {
	return queries.Viewer{UserID: optionalUserID(c), Admin: middleware.IsAdmin(c)}
}
