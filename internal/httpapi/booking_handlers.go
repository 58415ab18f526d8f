package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/service"
)

type bookingResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	BarberID         uuid.UUID `json:"barber_id"`
	TimeSlotID       uuid.UUID `json:"time_slot_id"`
	BookingDate      string    `json:"booking_date"`
	Service          string    `json:"service"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	PaymentRef       string    `json:"payment_ref,omitempty"`
	Status           string    `json:"status"`
	WalkIn           bool      `json:"is_walk_in"`
	ConfirmedByAdmin bool      `json:"confirmed_by_admin"`
	CancelledBy      string    `json:"cancelled_by,omitempty"`
	BookedAt         time.Time `json:"booked_at"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		BarberID:         b.BarberID,
		TimeSlotID:       b.TimeSlotID,
		BookingDate:      b.BookingDate,
		Service:          b.Service,
		PaymentMethod:    b.PaymentMethod,
		PaymentRef:       b.PaymentRef,
		Status:           string(b.Status),
		WalkIn:           b.WalkIn,
		ConfirmedByAdmin: b.ConfirmedByAdmin,
		CancelledBy:      string(b.CancelledBy),
		BookedAt:         b.BookedAt,
	}
}

func toBookingResponses(bookings []model.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

type bookServiceRequest struct {
	UserID        string `json:"user_id" binding:"required,uuid"`
	BarberID      string `json:"barber_id" binding:"required,uuid"`
	TimeSlotID    string `json:"time_id" binding:"required,uuid"`
	BookingDate   string `json:"booking_date" binding:"required,bookdate"`
	Service       string `json:"service" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentRef    string `json:"reference_number"`
}

func (a *API) bookService(c *gin.Context) {
	var req bookServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing required fields including payment method")
		return
	}

	booking, err := a.bookings.Create(c.Request.Context(), service.CreateBookingInput{
		UserID:        uuid.MustParse(req.UserID),
		BarberID:      uuid.MustParse(req.BarberID),
		TimeSlotID:    uuid.MustParse(req.TimeSlotID),
		Date:          req.BookingDate,
		Service:       req.Service,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking submitted! Awaiting admin confirmation.",
		"booking": toBookingResponse(booking),
	})
}

func (a *API) bookingCount(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}

	quota, err := a.bookings.ActiveCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   quota.Count,
		"limit":   quota.Limit,
		"canBook": quota.CanBook,
	})
}

func (a *API) myBookings(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}

	bookings, err := a.bookings.ListActive(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": toBookingResponses(bookings)})
}

func (a *API) bookingHistory(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}

	bookings, err := a.bookings.ListHistory(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": toBookingResponses(bookings)})
}

func (a *API) allBookings(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))

	bookings, err := a.bookings.ListAll(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": toBookingResponses(bookings)})
}

type bookingIDRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

func (a *API) confirmBooking(c *gin.Context) {
	var req bookingIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking ID required")
		return
	}

	booking, err := a.bookings.Confirm(c.Request.Context(), uuid.MustParse(req.BookingID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking confirmed and email sent to customer",
		"booking": toBookingResponse(booking),
	})
}

type cancelBookingRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Actor     string `json:"actor" binding:"required,oneof=USER ADMIN"`
	UserID    string `json:"user_id" binding:"omitempty,uuid"`
}

func (a *API) cancelBooking(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking ID and actor required")
		return
	}

	actor := model.CancelActor(req.Actor)
	var actorUserID uuid.UUID
	if actor == model.CancelledByUser {
		if req.UserID == "" {
			badRequest(c, "user_id required for user cancellation")
			return
		}
		actorUserID = uuid.MustParse(req.UserID)
	}

	booking, err := a.bookings.Cancel(c.Request.Context(), uuid.MustParse(req.BookingID), actor, actorUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled",
		"booking": toBookingResponse(booking),
	})
}

func (a *API) markDone(c *gin.Context) {
	var req bookingIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking ID required")
		return
	}

	booking, err := a.bookings.MarkDone(c.Request.Context(), uuid.MustParse(req.BookingID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking marked as done",
		"booking": toBookingResponse(booking),
	})
}

type rescheduleRequest struct {
	BookingID   string `json:"booking_id" binding:"required,uuid"`
	BarberID    string `json:"barber_id" binding:"required,uuid"`
	TimeSlotID  string `json:"time_id" binding:"required,uuid"`
	BookingDate string `json:"booking_date" binding:"required,bookdate"`
}

func (a *API) rescheduleBooking(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking ID, barber, timeslot and date required")
		return
	}

	booking, err := a.bookings.Reschedule(
		c.Request.Context(),
		uuid.MustParse(req.BookingID),
		uuid.MustParse(req.BarberID),
		uuid.MustParse(req.TimeSlotID),
		req.BookingDate,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking rescheduled! Awaiting admin confirmation.",
		"booking": toBookingResponse(booking),
	})
}

type walkInRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Service      string `json:"service" binding:"required"`
	BarberID     string `json:"barber_id" binding:"required,uuid"`
	TimeSlotID   string `json:"time_id" binding:"required,uuid"`
	BookingDate  string `json:"booking_date" binding:"required,bookdate"`
}

func (a *API) addWalkIn(c *gin.Context) {
	var req walkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "all fields required")
		return
	}

	booking, err := a.bookings.AddWalkIn(c.Request.Context(), service.WalkInInput{
		CustomerName: req.CustomerName,
		Service:      req.Service,
		BarberID:     uuid.MustParse(req.BarberID),
		TimeSlotID:   uuid.MustParse(req.TimeSlotID),
		Date:         req.BookingDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Walk-in booking added successfully",
		"booking": toBookingResponse(booking),
	})
}

func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
