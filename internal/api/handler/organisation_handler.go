package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/organisation"
	"swiftremind/internal/pkg/apperrors"
)

// OrganisationHandler exposes tenant administration. Every route behind it is
// superadmin-only; the service enforces the role again.
type OrganisationHandler struct {
	service organisation.OrganisationService
	logger  *slog.Logger
}

func NewOrganisationHandler(s organisation.OrganisationService, l *slog.Logger) *OrganisationHandler {
	if s == nil {
		panic("organisation service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &OrganisationHandler{
		service: s,
		logger:  l.With("component", "OrganisationHandler"),
	}
}

// CreateOrganisation handles POST /organisations
// @Summary Create an organisation
// @Tags Organisations
// @Accept json
// @Produce json
// @Param request body dto.CreateOrganisationRequest true "Organisation details"
// @Success 201 {object} dto.OrganisationResponse "Organisation created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /organisations [post]
// @Security BearerAuth
func (h *OrganisationHandler) CreateOrganisation(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateOrganisationRequest
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

	created, err := h.service.CreateOrganisation(r.Context(), viewer, organisation.NewOrganisationInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to create organisation", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Organisation created successfully", slog.Int64("organisationID", created.OrganisationID))
	respondJSON(w, http.StatusCreated, dto.NewOrganisationResponse(created))
}

// GetOrganisation handles GET /organisations/{organisationID}
// @Summary Retrieve an organisation
// @Tags Organisations
// @Produce json
// @Param organisationID path int true "Organisation ID" Minimum(1)
// @Success 200 {object} dto.OrganisationResponse "Organisation details"
// @Failure 400 {object} dto.ErrorResponse "Invalid organisation ID"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 404 {object} dto.ErrorResponse "Organisation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /organisations/{organisationID} [get]
// @Security BearerAuth
func (h *OrganisationHandler) GetOrganisation(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	organisationID, err := idFromURL(r, "organisationID")
	if err != nil {
		respondError(w, err)
		return
	}

	found, err := h.service.GetOrganisation(r.Context(), viewer, organisationID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get organisation", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewOrganisationResponse(found))
}

// ListOrganisations handles GET /organisations
// @Summary List organisations
// @Tags Organisations
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size, capped at 100"
// @Param search query string false "Substring match on name"
// @Success 200 {object} dto.PagedResponse "Page of organisations"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /organisations [get]
// @Security BearerAuth
func (h *OrganisationHandler) ListOrganisations(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, search := pagination(r)
	orgs, total, err := h.service.ListOrganisations(r.Context(), viewer, organisation.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: search,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to list organisations", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewOrganisationListResponse(orgs), total, page, limit))
}

// UpdateOrganisation handles PATCH /organisations/{organisationID}
// @Summary Update an organisation
// @Tags Organisations
// @Accept json
// @Produce json
// @Param organisationID path int true "Organisation ID" Minimum(1)
// @Param request body dto.UpdateOrganisationRequest true "Partial update payload"
// @Success 200 {object} dto.OrganisationResponse "Updated organisation"
// @Failure 400 {object} dto.ErrorResponse "Invalid organisation ID or empty payload"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 404 {object} dto.ErrorResponse "Organisation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /organisations/{organisationID} [patch]
// @Security BearerAuth
func (h *OrganisationHandler) UpdateOrganisation(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	organisationID, err := idFromURL(r, "organisationID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateOrganisationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateOrganisation(r.Context(), viewer, organisationID, req.ToPatch())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrForbidden) &&
			!errors.Is(err, apperrors.ErrInvalidArgument) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update organisation", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Organisation updated successfully", slog.Int64("organisationID", organisationID))
	respondJSON(w, http.StatusOK, dto.NewOrganisationResponse(updated))
}

// DeleteOrganisation handles DELETE /organisations/{organisationID}
// @Summary Soft-delete an organisation
// @Tags Organisations
// @Produce json
// @Param organisationID path int true "Organisation ID" Minimum(1)
// @Success 204 "Organisation deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid organisation ID"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superadmin"
// @Failure 404 {object} dto.ErrorResponse "Organisation not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /organisations/{organisationID} [delete]
// @Security BearerAuth
func (h *OrganisationHandler) DeleteOrganisation(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	organisationID, err := idFromURL(r, "organisationID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.service.DeleteOrganisation(r.Context(), viewer, organisationID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete organisation", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Organisation deleted successfully", slog.Int64("organisationID", organisationID))
	respondJSON(w, http.StatusNoContent, nil)
}
