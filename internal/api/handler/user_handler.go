package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/user"
	"swiftremind/internal/pkg/apperrors"
)

type UserHandler struct {
	service user.UserService
	logger  *slog.Logger
}

func NewUserHandler(s user.UserService, l *slog.Logger) *UserHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &UserHandler{
		service: s,
		logger:  l.With("component", "UserHandler"),
	}
}

// ListUsers handles GET /users
// @Summary List user accounts
// @Description Lists accounts across all organisations. Superadmin only.
// @Tags Users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size, capped at 100"
// @Param search query string false "Substring match on name or email"
// @Success 200 {object} dto.PagedResponse "Page of users"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
// @Security BearerAuth
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, search := pagination(r)
	users, total, err := h.service.ListUsers(r.Context(), viewer, user.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: search,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to list users", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewUserListResponse(users), total, page, limit))
}

// DeleteUser handles DELETE /users/{userID}
// @Summary Delete a user account
// @Description Removes an account permanently. Superadmin only; deleting your own account is rejected.
// @Tags Users
// @Produce json
// @Param userID path int true "User ID" Minimum(1)
// @Success 204 "User deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID or attempt to delete own account"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{userID} [delete]
// @Security BearerAuth
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	userID, err := idFromURL(r, "userID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), viewer, userID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrForbidden) &&
			!errors.Is(err, apperrors.ErrInvalidArgument) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User deleted successfully", slog.Int64("userID", userID))
	respondJSON(w, http.StatusNoContent, nil)
}
