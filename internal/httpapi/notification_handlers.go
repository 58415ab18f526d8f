package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *API) listNotifications(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "1"
	notifications, err := a.notifications.ListByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": out})
}

type markReadRequest struct {
	NotificationID string `json:"notification_id" binding:"required,uuid"`
	UserID         string `json:"user_id" binding:"required,uuid"`
}

func (a *API) markNotificationRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "notification ID and user ID required")
		return
	}

	err := a.notifications.MarkRead(
		c.Request.Context(),
		uuid.MustParse(req.NotificationID),
		uuid.MustParse(req.UserID),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type userIDRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

func (a *API) markAllNotificationsRead(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user ID required")
		return
	}

	if err := a.notifications.MarkAllRead(c.Request.Context(), uuid.MustParse(req.UserID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type requestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// requestCode выдаёт короткоживущий код подтверждения и отправляет
// его письмом. Сам код в ответ не попадает.
func (a *API) requestCode(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "valid email required")
		return
	}

	code, err := a.codes.Issue(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := a.mailer.SendVerificationCode(c.Request.Context(), req.Email, code); err != nil {
		log.Printf("httpapi: verification code email to %s: %v", req.Email, err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (a *API) verifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and 6-digit code required")
		return
	}

	ok, err := a.codes.Check(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid or expired code"})
		return
	}

	if err := a.codes.Invalidate(c.Request.Context(), req.Email); err != nil {
		log.Printf("httpapi: invalidate code for %s: %v", req.Email, err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
