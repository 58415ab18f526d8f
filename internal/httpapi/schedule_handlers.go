package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/schedule"
)

type slotResponse struct {
	ID        uuid.UUID `json:"id"`
	BarberID  uuid.UUID `json:"barber_id"`
	Time      string    `json:"time"`
	ValidFrom string    `json:"valid_from,omitempty"`
	Available bool      `json:"available"`
}

func toSlotResponse(s *model.TimeSlot) slotResponse {
	resp := slotResponse{
		ID:        s.ID,
		BarberID:  s.BarberID,
		Time:      s.Time,
		Available: s.Available,
	}
	if s.ValidFrom != nil {
		resp.ValidFrom = time.Time(*s.ValidFrom).Format(schedule.DateLayout)
	}
	return resp
}

func (a *API) availableTimes(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("barberId"))
	if err != nil {
		badRequest(c, "invalid barber ID")
		return
	}

	slots, err := a.availability.AvailableSlots(c.Request.Context(), barberID, c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}

	times := make([]slotResponse, 0, len(slots))
	for i := range slots {
		times = append(times, toSlotResponse(&slots[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "times": times})
}

func (a *API) listBarbers(c *gin.Context) {
	barbers, err := a.availability.EffectiveBarbers(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}

	type barberResponse struct {
		ID             uuid.UUID `json:"id"`
		Name           string    `json:"name"`
		DefaultPresent bool      `json:"default_present"`
		Present        bool      `json:"is_present"`
	}
	out := make([]barberResponse, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, barberResponse{
			ID:             b.Barber.ID,
			Name:           b.Barber.Name,
			DefaultPresent: b.Barber.Present,
			Present:        b.Present,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "barbers": out})
}

type barberPresenceRequest struct {
	BarberID string `json:"barber_id" binding:"required,uuid"`
	Date     string `json:"date" binding:"required,bookdate"`
	Present  *bool  `json:"is_present" binding:"required"`
}

func (a *API) updateBarberPresence(c *gin.Context) {
	var req barberPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "barber ID, date and presence status required")
		return
	}

	err := a.schedule.SetBarberPresence(c.Request.Context(), uuid.MustParse(req.BarberID), req.Date, *req.Present)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Barber presence updated successfully"})
}

type timeslotAvailabilityRequest struct {
	TimeSlotID string `json:"timeslot_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required,bookdate"`
	Available  *bool  `json:"is_available" binding:"required"`
}

func (a *API) updateTimeslotAvailability(c *gin.Context) {
	var req timeslotAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "timeslot ID, date and availability status required")
		return
	}

	err := a.schedule.SetTimeslotAvailability(c.Request.Context(), uuid.MustParse(req.TimeSlotID), req.Date, *req.Available)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Schedule updated successfully"})
}

type addBarberRequest struct {
	Name string `json:"name" binding:"required"`
}

func (a *API) addBarber(c *gin.Context) {
	var req addBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}

	barber, err := a.schedule.AddBarber(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "barber_id": barber.ID})
}

type updateBarberNameRequest struct {
	BarberID string `json:"barber_id" binding:"required,uuid"`
	Name     string `json:"name" binding:"required"`
}

func (a *API) updateBarberName(c *gin.Context) {
	var req updateBarberNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "barber ID and name are required")
		return
	}

	if err := a.schedule.RenameBarber(c.Request.Context(), uuid.MustParse(req.BarberID), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Barber name updated successfully"})
}

type barberIDRequest struct {
	BarberID string `json:"barber_id" binding:"required,uuid"`
}

func (a *API) deleteBarber(c *gin.Context) {
	var req barberIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "barber ID is required")
		return
	}

	if err := a.schedule.DeleteBarber(c.Request.Context(), uuid.MustParse(req.BarberID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Barber deleted successfully"})
}

type addTimeslotRequest struct {
	BarberID  string `json:"barber_id" binding:"required,uuid"`
	Time      string `json:"time" binding:"required"`
	ValidFrom string `json:"available_date" binding:"omitempty,bookdate"`
}

func (a *API) addTimeslot(c *gin.Context) {
	var req addTimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "barber ID and time are required")
		return
	}

	slot, err := a.schedule.AddTimeslot(c.Request.Context(), uuid.MustParse(req.BarberID), req.Time, req.ValidFrom)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Timeslot added successfully",
		"timeslot_id": slot.ID,
	})
}

type updateTimeslotRequest struct {
	TimeSlotID string `json:"timeslot_id" binding:"required,uuid"`
	Time       string `json:"time" binding:"required"`
}

func (a *API) updateTimeslot(c *gin.Context) {
	var req updateTimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "timeslot ID and time are required")
		return
	}

	if err := a.schedule.UpdateTimeslot(c.Request.Context(), uuid.MustParse(req.TimeSlotID), req.Time); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Timeslot updated successfully"})
}

type timeslotIDRequest struct {
	TimeSlotID string `json:"timeslot_id" binding:"required,uuid"`
}

func (a *API) deleteTimeslot(c *gin.Context) {
	var req timeslotIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "timeslot ID is required")
		return
	}

	if err := a.schedule.DeleteTimeslot(c.Request.Context(), uuid.MustParse(req.TimeSlotID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Timeslot deleted successfully"})
}
