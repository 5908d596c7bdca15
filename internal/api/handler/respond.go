package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/api/middleware"
	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Authentication required."
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "You do not have permission to perform this action."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

// requestViewer pulls the authenticated principal off the request context.
func requestViewer(r *http.Request) (authz.Viewer, error) {
	viewer, ok := middleware.ViewerFrom(r.Context())
	if !ok {
		return authz.Viewer{}, apperrors.ErrUnauthorized
	}
	return viewer, nil
}

func idFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s format in URL path: %s", apperrors.ErrInvalidArgument, param, idStr)
	}
	return id, nil
}

// pagination reads page/limit/search query parameters, clamping limit and
// defaulting page to 1.
func pagination(r *http.Request) (page, limit int, search string) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, q.Get("search")
}
