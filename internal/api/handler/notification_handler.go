package handler

import (
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/notification"
)

// NotificationHandler is read-only. Notification rows are produced by the
// dispatch job, never through the API.
type NotificationHandler struct {
	service notification.NotificationService
	logger  *slog.Logger
}

func NewNotificationHandler(s notification.NotificationService, l *slog.Logger) *NotificationHandler {
	if s == nil {
		panic("notification service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &NotificationHandler{
		service: s,
		logger:  l.With("component", "NotificationHandler"),
	}
}

// ListNotifications handles GET /notifications
// @Summary List sent notifications
// @Description Lists reminder delivery attempts for the caller's organisation, newest first.
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size, capped at 100"
// @Param search query string false "Substring match on message"
// @Success 200 {object} dto.PagedResponse "Page of notifications"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, search := pagination(r)
	notifications, total, err := h.service.ListNotifications(r.Context(), viewer, notification.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: search,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list notifications", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewNotificationListResponse(notifications), total, page, limit))
}
