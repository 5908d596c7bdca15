package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/pkg/apperrors"
)

type ReminderHandler struct {
	service reminder.ReminderService
	logger  *slog.Logger
}

func NewReminderHandler(s reminder.ReminderService, l *slog.Logger) *ReminderHandler {
	if s == nil {
		panic("reminder service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReminderHandler{
		service: s,
		logger:  l.With("component", "ReminderHandler"),
	}
}

// CreateReminder handles POST /reminders
// @Summary Create a payment reminder
// @Description Schedules a reminder for a customer in the caller's organisation. New reminders start in the pending status.
// @Tags Reminders
// @Accept json
// @Produce json
// @Param request body dto.CreateReminderRequest true "Reminder details"
// @Success 201 {object} dto.ReminderResponse "Reminder created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders [post]
// @Security BearerAuth
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	dueDate, err := req.ParsedDueDate()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateReminder(r.Context(), viewer, reminder.NewReminderInput{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		DueDate:    dueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to create reminder", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewReminderResponse(created)
	h.logger.InfoContext(r.Context(), "Reminder created successfully", slog.String("reminderID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetReminder handles GET /reminders/{reminderID}
// @Summary Retrieve a reminder
// @Tags Reminders
// @Produce json
// @Param reminderID path int true "Reminder ID" Minimum(1)
// @Success 200 {object} dto.ReminderResponse "Reminder details"
// @Failure 400 {object} dto.ErrorResponse "Invalid reminder ID"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders/{reminderID} [get]
// @Security BearerAuth
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reminderID, err := idFromURL(r, "reminderID")
	if err != nil {
		respondError(w, err)
		return
	}

	found, err := h.service.GetReminder(r.Context(), viewer, reminderID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get reminder", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewReminderResponse(found))
}

// ListReminders handles GET /reminders
// @Summary List reminders
// @Tags Reminders
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size, capped at 100"
// @Param search query string false "Substring match on notes"
// @Success 200 {object} dto.PagedResponse "Page of reminders"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders [get]
// @Security BearerAuth
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, search := pagination(r)
	reminders, total, err := h.service.ListReminders(r.Context(), viewer, reminder.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: search,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list reminders", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewReminderListResponse(reminders), total, page, limit))
}

// UpdateReminder handles PATCH /reminders/{reminderID}
// @Summary Update a reminder
// @Description Applies a partial update. Status may move between pending, paid and cancelled.
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminderID path int true "Reminder ID" Minimum(1)
// @Param request body dto.UpdateReminderRequest true "Partial update payload"
// @Success 200 {object} dto.ReminderResponse "Updated reminder"
// @Failure 400 {object} dto.ErrorResponse "Invalid reminder ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders/{reminderID} [patch]
// @Security BearerAuth
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reminderID, err := idFromURL(r, "reminderID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateReminder(r.Context(), viewer, reminderID, patch)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrValidation) &&
			!errors.Is(err, apperrors.ErrInvalidArgument) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update reminder", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Reminder updated successfully", slog.Int64("reminderID", reminderID))
	respondJSON(w, http.StatusOK, dto.NewReminderResponse(updated))
}

// DeleteReminder handles DELETE /reminders/{reminderID}
// @Summary Delete a reminder
// @Description Removes the reminder permanently. Reminders are not soft-deleted.
// @Tags Reminders
// @Produce json
// @Param reminderID path int true "Reminder ID" Minimum(1)
// @Success 204 "Reminder deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid reminder ID"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders/{reminderID} [delete]
// @Security BearerAuth
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reminderID, err := idFromURL(r, "reminderID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteReminder(r.Context(), viewer, reminderID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete reminder", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Reminder deleted successfully", slog.Int64("reminderID", reminderID))
	respondJSON(w, http.StatusNoContent, nil)
}
