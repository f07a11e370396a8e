package handler

import (
	"net/http"
	"strconv"

	"patient-manager/internal/converter"
	"patient-manager/internal/usecase"
	"patient-manager/pkg/response"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
	}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)

	notifications, err := h.notificationUsecase.ListRecent(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully",
		converter.NotificationsToResponses(notifications))
}

func (h *NotificationHandler) ListNotificationsByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		response.Error(w, http.StatusBadRequest, "Email query parameter is required", nil)
		return
	}

	limit := parseLimit(r, 0)

	notifications, err := h.notificationUsecase.ListByEmail(r.Context(), email, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully",
		converter.NotificationsToResponses(notifications))
}

// parseLimit returns the fallback when the query value is absent or not a
// positive integer; the usecase applies its own default for zero.
func parseLimit(r *http.Request, fallback int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
