//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/handler/api"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	resdto "hotel-reservation-engine/internal/handler/dto/response"
	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/jwt"
	"hotel-reservation-engine/internal/pkg/ptr"
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/tests/common/builder"
	"hotel-reservation-engine/tests/common/httptest"
	"hotel-reservation-engine/tests/common/testutil"
	commandsmock "hotel-reservation-engine/tests/mock/commands"
	queriesmock "hotel-reservation-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth stands in for OptionalAuth/RequireAuth: "Bearer admin" is an admin, any other
// bearer is a guest with userID, no header is anonymous.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch h := c.GetHeader("Authorization"); {
		case h == "":
		case strings.HasSuffix(h, "admin"):
			c.Set("user_id", userID)
			c.Set("user_role", jwt.RoleAdmin)
		case strings.HasSuffix(h, "owner"):
			c.Set("user_id", userID)
			c.Set("user_role", jwt.RoleOwner)
		default:
			c.Set("user_id", userID)
			c.Set("user_role", jwt.RoleGuest)
		}
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	mockQuotes   *queriesmock.MockQuoteQueries
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(reqdto.RegisterValidators())
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.mockQuotes = queriesmock.NewMockQuoteQueries(s.mockCtrl)
	s.userID = uuid.New()

	h := api.NewBookingHandler(s.mockCommands, s.mockQueries, s.mockQuotes)
	g := s.router.Group("/api/bookings", fakeAuth(s.userID))
	g.POST("", h.Create)
	g.POST("/quote", h.Quote)
	g.GET("/email/:action/:id", h.EmailAction)
	g.GET("/:id", h.Get)
	g.POST("/:id/confirm", h.Confirm)
	g.POST("/:id/cancel", h.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func createRequest() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		HotelID:  uuid.New(),
		CheckIn:  "2030-03-01 14:00",
		CheckOut: "2030-03-02 12:00",
		Guests:   2,
	}
}

func transitionResult(id uuid.UUID, status reservation.Status) *commands.TransitionResult {
	return &commands.TransitionResult{ReservationID: id, Status: status, Total: 1000}
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/api/bookings"
	req := createRequest()
	result := &commands.CreateReservationResult{
		Status:        reservation.StatusHeld,
		ReservationID: uuid.New(),
		RoomID:        uuid.New(),
		HoldExpiresAt: time.Date(2030, 2, 1, 10, 15, 0, 0, time.UTC),
		Total:         1500,
	}

	s.Run("success: 201 with the hold, guest id taken from the token", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateReservationInput) (*commands.CreateReservationResult, error) {
				s.Require().NotNil(in.UserID)
				s.Equal(s.userID, *in.UserID)
				s.Equal(req.HotelID, in.HotelID)
				return result, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "guest")

		var body resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(result.ReservationID, body.ID)
		s.Equal("held", body.Status)
		s.Equal(int64(1500), body.Total)
		s.False(body.Reused)
	})

	s.Run("success: anonymous guest has no user id", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateReservationInput) (*commands.CreateReservationResult, error) {
				s.Nil(in.UserID)
				return result, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("success: omitted check_out is left to the default stay length", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateReservationInput) (*commands.CreateReservationResult, error) {
				s.Empty(in.CheckOut)
				s.Equal(req.CheckIn, in.CheckIn)
				return result, nil
			}).Times(1)

		body := testutil.DtoMap(s.T(), req, testutil.Field("check_out", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "guest")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("success: reused hold answers 200", func() {
		reused := *result
		reused.Reused = true
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&reused, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "guest")

		var body resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Reused)
	})

	s.Run("error: 400 on malformed requests", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing hotel_id", mutate: testutil.Field("hotel_id", nil)},
			{name: "missing check_in", mutate: testutil.Field("check_in", nil)},
			{name: "guests zero", mutate: testutil.Field("guests", 0)},
			{name: "guests over limit", mutate: testutil.Field("guests", 21)},
			{name: "room type too long", mutate: testutil.Field("room_type", strings.Repeat("x", 65))},
			{name: "coupon id and code together", mutate: func(m map[string]any) {
				m["coupon_id"] = uuid.New().String()
				m["coupon_code"] = "WELCOME10"
			}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), req, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "guest")
				httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION")
			})
		}
	})

	s.Run("error: maps usecase errors to statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{name: "check-in in the past", err: stay.ErrCheckInInPast, expectCode: http.StatusBadRequest, expectMsg: "check-in is in the past"},
			{name: "hotel missing", err: commands.ErrHotelNotFound, expectCode: http.StatusNotFound, expectMsg: "hotel not found"},
			{name: "no room", err: availability.ErrNoRoomAvailable, expectCode: http.StatusConflict, expectMsg: "no room available"},
			{name: "unexpected", err: errors.New("connection reset"), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "guest")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	id := uuid.New()
	url := "/api/bookings/" + id.String()
	view := &queries.ReservationView{
		ID:         id,
		UserID:     &s.userID,
		HotelID:    uuid.New(),
		HotelName:  "Harbor View",
		RoomID:     uuid.New(),
		RoomType:   "standard",
		CheckIn:    time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2030, 3, 2, 12, 0, 0, 0, time.UTC),
		Guests:     2,
		Total:      1000,
		CouponCode: ptr.Of("WELCOME10"),
		Status:     "confirmed",
		Paid:       true,
	}

	s.Run("success: 200 with the booking", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), queries.Viewer{UserID: &s.userID}, id).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "guest")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(id, body.ID)
		s.Equal("Harbor View", body.HotelName)
		s.Equal("confirmed", body.Status)
		s.Equal(int64(1000), body.Total)
		s.Require().NotNil(body.CouponCode)
		s.Equal("WELCOME10", *body.CouponCode)
		s.True(body.Paid)
	})

	s.Run("success: admin viewer flag is passed", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), queries.Viewer{UserID: &s.userID, Admin: true}, id).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "admin")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 403 when the viewer is a stranger", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).Return(nil, queries.ErrForbidden).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "AUTHORIZATION")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).Return(nil, queries.ErrReservationNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

// ================================================================================
// TestConfirm
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirm() {
	id := uuid.New()
	url := "/api/bookings/" + id.String() + "/confirm"

	s.Run("success: authenticated guest without body", func() {
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), id, reservation.ActorGuest, commands.Caller{UserID: &s.userID}).
			Return(transitionResult(id, reservation.StatusConfirmed), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "guest")

		var body resdto.TransitionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	s.Run("success: anonymous guest with action token", func() {
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), id, reservation.ActorGuest, commands.Caller{Token: builder.GuestToken}).
			Return(transitionResult(id, reservation.StatusConfirmed), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.ConfirmBookingRequest{Token: builder.GuestToken}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on malformed token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.ConfirmBookingRequest{Token: "not-hex"}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION")
	})

	s.Run("error: 409 when the hold expired", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), id, reservation.ActorGuest, gomock.Any()).
			Return(nil, reservation.ErrHoldExpired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "guest")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Hold expired")
	})

	s.Run("error: 403 on a wrong token", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), id, reservation.ActorGuest, gomock.Any()).
			Return(nil, reservation.ErrInvalidToken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "AUTHORIZATION")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	id := uuid.New()
	url := "/api/bookings/" + id.String() + "/cancel"
	reason := "Plans changed, sorry"

	s.Run("success: guest cancel returns the fee", func() {
		res := transitionResult(id, reservation.StatusCancelled)
		res.CancellationFee = pricing.Money(200)
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, reservation.ActorGuest, reason, commands.Caller{UserID: &s.userID}).
			Return(res, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.CancelBookingRequest{Reason: reason}, "guest")

		var body resdto.TransitionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
		s.Equal(int64(200), body.CancellationFee)
	})

	s.Run("error: 400 on control characters in the reason", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.CancelBookingRequest{Reason: "bad\x00reason text"}, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION")
	})

	s.Run("error: 422 when the reason is too short", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, reservation.ActorGuest, "short", gomock.Any()).
			Return(nil, reservation.ErrReasonTooShort).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.CancelBookingRequest{Reason: "short"}, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "POLICY_VIOLATION")
	})
}

// ================================================================================
// TestEmailAction
// ================================================================================

func (s *BookingHandlerTestSuite) TestEmailAction() {
	id := uuid.New()
	link := func(action, tok, reason string) string {
		u := "/api/bookings/email/" + action + "/" + id.String() + "?token=" + tok
		if reason != "" {
			u += "&reason=" + reason
		}
		return u
	}

	s.Run("success: owner confirm via token", func() {
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), id, reservation.ActorOwner, commands.Caller{Token: builder.OwnerToken}).
			Return(transitionResult(id, reservation.StatusConfirmed), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, link(api.EmailActionConfirm, builder.OwnerToken, ""), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: owner cancel passes the reason", func() {
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, reservation.ActorOwner, "Overbooked tonight", commands.Caller{Token: builder.OwnerToken}).
			Return(transitionResult(id, reservation.StatusCancelled), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			link(api.EmailActionCancel, builder.OwnerToken, "Overbooked%20tonight"), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: guest cancel acts as the guest", func() {
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), id, reservation.ActorGuest, "Flight cancelled", commands.Caller{Token: builder.GuestToken}).
			Return(transitionResult(id, reservation.StatusCancelled), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			link(api.EmailActionGuestCancel, builder.GuestToken, "Flight%20cancelled"), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 on an unknown action", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, link("refund", builder.OwnerToken, ""), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})

	s.Run("error: 400 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/api/bookings/email/confirm/"+id.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION")
	})
}

// ================================================================================
// TestQuote
// ================================================================================

func (s *BookingHandlerTestSuite) TestQuote() {
	url := "/api/bookings/quote"
	hotelID := uuid.New()
	checkIn := time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC)
	w, err := stay.New(checkIn, checkIn.Add(22*time.Hour))
	s.Require().NoError(err)

	quote := &queries.Quote{
		HotelID: hotelID,
		Window:  w,
		Breakdown: pricing.Breakdown{
			Days:  []pricing.DayRate{{Date: pricing.DateOf(checkIn), Tier: pricing.TierWeekend, Rate: 1500}},
			Total: 1500,
		},
		CouponCode:  ptr.Of("WELCOME10"),
		DiscountPct: 10,
		Discount:    150,
		Total:       1350,
		TaxRate:     0.1,
		Tax:         135,
	}

	s.Run("success: 200 with breakdown and informational tax", func() {
		s.mockQuotes.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(quote, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.QuoteRequest{
			HotelID:    hotelID,
			CheckIn:    "2030-03-01 14:00",
			CheckOut:   "2030-03-02 12:00",
			CouponCode: ptr.Of("WELCOME10"),
		}, "")

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(1, body.StayDays)
		s.Require().Len(body.Days, 1)
		s.Equal("weekend", body.Days[0].Tier)
		s.Equal(int64(1500), body.Subtotal)
		s.Equal(int64(1350), body.Total)
		s.Equal(int64(135), body.Tax)
	})

	s.Run("success: check_out may be omitted", func() {
		s.mockQuotes.EXPECT().Quote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in queries.QuoteInput) (*queries.Quote, error) {
				s.Empty(in.CheckOut)
				return quote, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.QuoteRequest{
			HotelID: hotelID,
			CheckIn: "2030-03-01 14:00",
		}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 on unknown coupon", func() {
		s.mockQuotes.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, queries.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.QuoteRequest{
			HotelID:  hotelID,
			CheckIn:  "2030-03-01",
			CheckOut: "2030-03-02",
		}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "coupon not found")
	})
}
