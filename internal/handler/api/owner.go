package api

import (
	"net/http"

	"hotel-reservation-engine/internal/domain/reservation"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// OwnerHandler serves the hotel dashboard. Routes sit behind RequireAuth and an
// owner/admin role check; hotel ownership is enforced by the usecases.
type OwnerHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewOwnerHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *OwnerHandler {
	return &OwnerHandler{cmds: cmds, q: q}
}

// @Summary List hotel bookings
// @Description Newest first, keyset paginated by created_at and id.
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param hotelId path string true "Hotel ID"
// @Param status query string false "Status filter"
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor from next_cursor"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/owner/hotels/{hotelId}/bookings [get]
func (h *OwnerHandler) List(c *gin.Context) {
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return
	}
	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	after, err := queries.DecodeCursor(q.After)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	page, err := h.q.ListByHotel(c.Request.Context(), viewer(c), hotelID, queries.ListFilter{
		Status: q.Status,
		After:  after,
		Limit:  q.Limit,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	res, err := resdto.FromReservationPage(page)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Confirm booking (owner)
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/owner/bookings/{id}/confirm [post]
func (h *OwnerHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.cmds.Confirm(c.Request.Context(), id, reservation.ActorOwner, callerFrom(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Cancel booking (owner)
// @Description Rejected inside the owner lead time before check-in.
// @Tags owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation reason"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/owner/bookings/{id}/cancel [post]
func (h *OwnerHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.Cancel(c.Request.Context(), id, reservation.ActorOwner, req.Reason, callerFrom(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Check a guest in
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/owner/bookings/{id}/check-in [post]
func (h *OwnerHandler) CheckIn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.cmds.CheckIn(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Check a guest out
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/owner/bookings/{id}/check-out [post]
func (h *OwnerHandler) CheckOut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.cmds.CheckOut(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}
