package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/suavebarber/booking-core/internal/notify"
	"github.com/suavebarber/booking-core/internal/repository"
	"github.com/suavebarber/booking-core/internal/schedule"
	"github.com/suavebarber/booking-core/internal/service"
	"github.com/suavebarber/booking-core/internal/verify"
)

// API — тонкий JSON-слой над движком бронирования. Аутентификации
// здесь нет: личность вызывающего приходит полями запроса, проверка
// прав — забота внешнего слоя.
type API struct {
	availability  *service.AvailabilityService
	bookings      *service.BookingService
	schedule      *service.ScheduleService
	notifications repository.NotificationRepository
	codes         *verify.CodeStore
	mailer        notify.Mailer
}

func New(
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	scheduleSvc *service.ScheduleService,
	notifications repository.NotificationRepository,
	codes *verify.CodeStore,
	mailer notify.Mailer,
) *API {
	return &API{
		availability:  availability,
		bookings:      bookings,
		schedule:      scheduleSvc,
		notifications: notifications,
		codes:         codes,
		mailer:        mailer,
	}
}

// Router собирает gin-движок со всеми маршрутами.
func (a *API) Router() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/available-times/:barberId/:date", a.availableTimes)
		api.GET("/barbers", a.listBarbers)

		api.POST("/book-service", a.bookService)
		api.GET("/user-booking-count", a.bookingCount)
		api.GET("/my-bookings", a.myBookings)
		api.GET("/booking-history", a.bookingHistory)
		api.POST("/cancel-booking", a.cancelBooking)
		api.POST("/reschedule-booking", a.rescheduleBooking)

		api.GET("/notifications", a.listNotifications)
		api.POST("/notifications/mark-read", a.markNotificationRead)
		api.POST("/notifications/mark-all-read", a.markAllNotificationsRead)

		api.POST("/request-code", a.requestCode)
		api.POST("/verify-code", a.verifyCode)

		admin := api.Group("/admin")
		{
			admin.GET("/all-bookings", a.allBookings)
			admin.POST("/confirm-booking", a.confirmBooking)
			admin.POST("/mark-done", a.markDone)
			admin.POST("/add-walk-in", a.addWalkIn)

			admin.POST("/update-barber-presence", a.updateBarberPresence)
			admin.POST("/update-barber-schedule", a.updateTimeslotAvailability)

			admin.POST("/add-barber", a.addBarber)
			admin.POST("/update-barber-name", a.updateBarberName)
			admin.POST("/delete-barber", a.deleteBarber)

			admin.POST("/add-timeslot", a.addTimeslot)
			admin.POST("/update-timeslot", a.updateTimeslot)
			admin.POST("/delete-timeslot", a.deleteTimeslot)
		}
	}

	return r
}

// bookdate — дата в формате YYYY-MM-DD; мусор режется на границе API.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
			_, err := schedule.NormalizeDate(fl.Field().String())
			return err == nil
		})
	}
}

func writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrQuotaExceeded):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSlotConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbiddenTransition):
		status = http.StatusForbidden
	default:
		log.Printf("httpapi: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
